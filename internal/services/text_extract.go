package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat marks input the extractor cannot read at all, as
// opposed to a supported format that failed to parse. Handlers map it to
// a 400 instead of a 500.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractText sniffs the true file type from the bytes and extracts
// plain text. Supported: PDF, DOCX, PPTX, TXT/MD, HTML (tags stripped).
// The caller treats the result as opaque reference context.
func ExtractText(originalName string, mimeType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	if len(data) == 0 {
		return "", fmt.Errorf("empty file: name=%s", originalName)
	}

	// Magic bytes beat whatever the upload claims.
	if isPDF(data) {
		return extractPDF(data)
	}
	if isZipContainer(data) {
		kind, err := detectOpenXMLKind(data)
		if err != nil {
			return "", fmt.Errorf("openxml detect failed: %w", err)
		}
		switch kind {
		case "docx":
			return extractDOCX(data)
		case "pptx":
			return extractPPTX(data)
		default:
			return "", fmt.Errorf("%w: zip container is neither docx nor pptx (name=%s)", ErrUnsupportedFormat, originalName)
		}
	}

	if looksLikeHTML(data) || mt == "text/html" || ext == ".html" || ext == ".htm" {
		return stripHTML(string(data)), nil
	}

	if isProbablyText(data) || mt == "text/plain" || ext == ".txt" || ext == ".md" || ext == ".markdown" {
		return normalizeText(string(data)), nil
	}

	// The upload claims an office format but the bytes disagree:
	// corrupted file, not an unknown format.
	if mt == "application/pdf" || ext == ".pdf" {
		return "", fmt.Errorf("file claims pdf but missing %%PDF header: name=%s", originalName)
	}
	if mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || ext == ".docx" {
		return "", fmt.Errorf("file claims docx but is not a valid zip container: name=%s", originalName)
	}
	if mt == "application/vnd.openxmlformats-officedocument.presentationml.presentation" || ext == ".pptx" {
		return "", fmt.Errorf("file claims pptx but is not a valid zip container: name=%s", originalName)
	}

	return "", fmt.Errorf("%w: name=%s ext=%s mime=%s", ErrUnsupportedFormat, originalName, ext, mt)
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZipContainer(b []byte) bool {
	// ZIP local file header: PK\x03\x04
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	head := strings.ToLower(string(b[:minInt(len(b), 2048)]))
	trimmed := strings.TrimSpace(head)
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	return strings.Contains(head, "<html") && strings.Contains(head, "</html>")
}

func isProbablyText(b []byte) bool {
	sample := b[:minInt(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return normalizeText(string(b)), nil
}

func detectOpenXMLKind(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	hasWord := false
	hasPpt := false
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			hasWord = true
		}
		if strings.HasPrefix(f.Name, "ppt/") {
			hasPpt = true
		}
	}
	switch {
	case hasWord && !hasPpt:
		return "docx", nil
	case hasPpt && !hasWord:
		return "pptx", nil
	default:
		return "unknown", nil
	}
}

// extractDOCX gathers the <w:t> runs of word/document.xml.
func extractDOCX(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		if err := appendXMLText(&out, f); err != nil {
			return "", err
		}
	}
	s := normalizeText(out.String())
	if s == "" {
		return "", fmt.Errorf("no text extracted from docx")
	}
	return s, nil
}

// extractPPTX gathers the <a:t> runs of every ppt/slides/*.xml part.
func extractPPTX(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "ppt/slides/") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		if err := appendXMLText(&out, f); err != nil {
			return "", err
		}
	}
	s := normalizeText(out.String())
	if s == "" {
		return "", fmt.Errorf("no text extracted from pptx")
	}
	return s, nil
}

func appendXMLText(out *strings.Builder, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	b, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return err
	}

	dec := xml.NewDecoder(bytes.NewReader(b))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		if err := dec.DecodeElement(&v, &se); err != nil {
			continue
		}
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	out.WriteString("\n")
	return nil
}

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return normalizeText(s)
}

// normalizeText keeps line structure but collapses runs of blanks within
// each line; extracted context feeds a prompt, not a renderer.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, "\n")
}
