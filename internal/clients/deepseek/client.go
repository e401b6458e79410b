package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pressgen/pressgen-backend/internal/logger"
)

// Client streams chat completions from an OpenAI-compatible provider.
// One StreamCompletion call issues exactly one upstream request; the
// fragment sequence is single-pass and a retry needs a fresh call.
type Client struct {
	baseURL             string
	apiKey              string
	model               string
	chatCompletionsPath string
	systemPrompt        string
	streamTimeout       time.Duration

	httpClient *http.Client
	log        *logger.Logger
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("deepseek: base_url required")
	}

	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/chat/completions"
	}

	timeout := cfg.StreamTimeout.Duration
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	systemPrompt := strings.TrimSpace(cfg.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	return &Client{
		baseURL:             baseURL,
		apiKey:              strings.TrimSpace(cfg.APIKey),
		model:               strings.TrimSpace(cfg.Model),
		chatCompletionsPath: chatPath,
		systemPrompt:        systemPrompt,
		streamTimeout:       timeout,
		httpClient:          &http.Client{Transport: tr},
		log:                 log.With("client", "DeepseekClient"),
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg Config, log *logger.Logger, httpClient *http.Client) (*Client, error) {
	c, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatCompletionStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content,omitempty"`
		} `json:"delta,omitempty"`
	} `json:"choices"`
}

// errStreamDone ends SSE iteration when the [DONE] sentinel arrives.
var errStreamDone = errors.New("deepseek: stream done")

// StreamCompletion issues one streaming chat-completions call and hands
// each content fragment to onFragment in arrival order.
//
// A missing credential never reaches the network: the misconfiguration is
// delivered as the single fragment of the sequence, so it surfaces inline
// to a caller that is already consuming a byte stream.
//
// Non-2xx answers return *HTTPError. Payload records that fail to parse,
// or that carry no content delta, are skipped without ending the stream.
// An onFragment error (typically a gone consumer) stops the read and is
// returned verbatim.
func (c *Client) StreamCompletion(ctx context.Context, prompt string, onFragment func(fragment string) error) error {
	if c.apiKey == "" {
		c.log.Warn("DEEPSEEK_API_KEY not configured; skipping upstream call")
		return onFragment("Error: DEEPSEEK_API_KEY not configured.")
	}

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: true,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return err
	}

	ctx2, cancel := context.WithTimeout(ctx, c.streamTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, c.baseURL+c.chatCompletionsPath, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	err = streamSSE(resp.Body, func(_ string, data string) error {
		data = strings.TrimSpace(data)
		if data == "" {
			return nil
		}
		if data == "[DONE]" {
			return errStreamDone
		}

		var chunk chatCompletionStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Malformed payload records contribute nothing but do not
			// fault the stream.
			return nil
		}
		if len(chunk.Choices) == 0 {
			return nil
		}
		fragment := chunk.Choices[0].Delta.Content
		if fragment == "" {
			return nil
		}
		return onFragment(fragment)
	})
	if errors.Is(err, errStreamDone) {
		return nil
	}
	return err
}
