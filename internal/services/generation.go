package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pressgen/pressgen-backend/internal/clients/deepseek"
	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/requestdata"
	"github.com/pressgen/pressgen-backend/internal/types"
)

// FragmentSink receives one generated text fragment. Returning an error
// means the consumer is gone; production stops immediately.
type FragmentSink func(fragment string) error

// CompletionStreamer is the upstream completion client surface the
// generation pipeline needs. *deepseek.Client satisfies it.
type CompletionStreamer interface {
	StreamCompletion(ctx context.Context, prompt string, onFragment func(fragment string) error) error
}

type GenerationService interface {
	// Generate assembles the prompt for templateType and relays the
	// generated article to sink fragment by fragment. Failures after the
	// stream has started surface as inline fragments, never as errors;
	// the returned error is non-nil only when the sink itself failed or
	// the caller's context ended.
	Generate(ctx context.Context, templateType string, formData map[string]string, contextText string, sink FragmentSink) error

	// Rewrite transforms a text selection per command (expand, shorten,
	// rephrase, any free-form directive) with bounded surrounding
	// context, streaming exactly like Generate.
	Rewrite(ctx context.Context, text, command, contextBefore, contextAfter string, sink FragmentSink) error
}

type generationService struct {
	log         *logger.Logger
	templates   TemplateService
	completer   CompletionStreamer
	articleRepo repos.ArticleRepo
}

// NewGenerationService wires the pipeline. articleRepo may be nil; then
// no history rows are written.
func NewGenerationService(log *logger.Logger, templates TemplateService, completer CompletionStreamer, articleRepo repos.ArticleRepo) GenerationService {
	return &generationService{
		log:         log.With("service", "GenerationService"),
		templates:   templates,
		completer:   completer,
		articleRepo: articleRepo,
	}
}

func (gs *generationService) Generate(ctx context.Context, templateType string, formData map[string]string, contextText string, sink FragmentSink) error {
	tpl, _ := gs.templates.Resolve(ctx, templateType)
	prompt := BuildPrompt(tpl, formData, contextText)

	var full strings.Builder
	err := gs.relay(ctx, prompt, func(fragment string) error {
		full.WriteString(fragment)
		return sink(fragment)
	})
	if err != nil {
		return err
	}

	gs.recordHistory(ctx, templateType, formData, full.String())
	return nil
}

// Bounds on how much surrounding text a rewrite prompt may quote.
const (
	rewriteContextBeforeMax = 200
	rewriteContextAfterMax  = 200
)

func (gs *generationService) Rewrite(ctx context.Context, text, command, contextBefore, contextAfter string, sink FragmentSink) error {
	prompt := buildRewritePrompt(text, command, contextBefore, contextAfter)
	return gs.relay(ctx, prompt, sink)
}

func buildRewritePrompt(text, command, contextBefore, contextAfter string) string {
	var b strings.Builder
	b.WriteString("请对以下这段文字进行【")
	b.WriteString(command)
	b.WriteString("】：\n\n\"")
	b.WriteString(text)
	b.WriteString("\"\n\n上下文参考：\n前文：...")
	b.WriteString(lastRunes(contextBefore, rewriteContextBeforeMax))
	b.WriteString("\n后文：")
	b.WriteString(firstRunes(contextAfter, rewriteContextAfterMax))
	b.WriteString("...\n\n要求：只返回修改后的文本，不要包含解释性语言。")
	return b.String()
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// relay drives one upstream call, converting every mid-stream failure
// into a terminal inline fragment. Once the byte stream has started the
// transport cannot renegotiate a status code, so errors must travel as
// content.
func (gs *generationService) relay(ctx context.Context, prompt string, sink FragmentSink) error {
	wrapped := func(fragment string) error {
		if err := sink(fragment); err != nil {
			return &sinkError{err: err}
		}
		return nil
	}

	err := gs.completer.StreamCompletion(ctx, prompt, wrapped)
	if err == nil {
		return nil
	}

	var se *sinkError
	if errors.As(err, &se) {
		return se.err
	}
	if ctx.Err() != nil {
		// Caller disconnected; nobody is listening for an inline error.
		return ctx.Err()
	}

	var httpErr *deepseek.HTTPError
	if errors.As(err, &httpErr) {
		gs.log.Warn("Upstream returned HTTP error mid-stream", "status", httpErr.StatusCode)
		return sink(fmt.Sprintf("\n[API Error: %d - %s]", httpErr.StatusCode, httpErr.Body))
	}

	gs.log.Warn("Upstream stream failed", "error", err)
	return sink(fmt.Sprintf("\n[Network Error: %s]", err.Error()))
}

// sinkError tags consumer-side write failures so relay can tell them
// apart from upstream failures.
type sinkError struct {
	err error
}

func (e *sinkError) Error() string { return e.err.Error() }
func (e *sinkError) Unwrap() error { return e.err }

// recordHistory keeps the finished article for the user's history page.
// Best effort: a failed insert only logs.
func (gs *generationService) recordHistory(ctx context.Context, templateType string, formData map[string]string, content string) {
	if gs.articleRepo == nil || content == "" {
		return
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return
	}

	snapshot, err := json.Marshal(formData)
	if err != nil {
		snapshot = []byte("{}")
	}

	article := &types.Article{
		UserID:      rd.UserID,
		TemplateKey: templateType,
		Title:       formData["title"],
		Content:     content,
		FormData:    datatypes.JSON(snapshot),
	}
	if _, err := gs.articleRepo.Create(ctx, nil, article); err != nil {
		gs.log.Warn("Failed to record article history", "user_id", rd.UserID.String(), "error", err)
	}
}
