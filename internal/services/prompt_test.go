package services

import (
	"strings"
	"testing"
)

func TestBuildPrompt_SubstitutesAllFields(t *testing.T) {
	tpl, ok := builtinResolved("meeting")
	if !ok {
		t.Fatal("meeting builtin missing")
	}

	formData := map[string]string{
		"title":     "Q3 Review",
		"date":      "2024-07-01",
		"location":  "HQ",
		"attendees": "Ops Team",
		"summary":   "Reviewed quarterly metrics",
	}
	prompt := BuildPrompt(tpl, formData, "minutes attached")

	for _, v := range formData {
		if !strings.Contains(prompt, v) {
			t.Fatalf("prompt missing value %q", v)
		}
	}
	if !strings.Contains(prompt, "minutes attached") {
		t.Fatalf("prompt missing context")
	}
	for name := range formData {
		if strings.Contains(prompt, "{"+name+"}") {
			t.Fatalf("unsubstituted token {%s} left in prompt", name)
		}
	}
	if strings.Contains(prompt, "{context}") {
		t.Fatal("unsubstituted {context} left in prompt")
	}
}

func TestBuildPrompt_AbsentFieldsBecomeEmpty(t *testing.T) {
	tpl := &ResolvedTemplate{Key: "x", PromptTemplate: "A={a} B={b} end"}
	got := BuildPrompt(tpl, map[string]string{"a": "1"}, "")
	if got != "A=1 B= end" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildPrompt_NonIdentifierBracesPreserved(t *testing.T) {
	tpl := &ResolvedTemplate{Key: "x", PromptTemplate: `match {1,2} times and {a-b} but {name}`}
	got := BuildPrompt(tpl, map[string]string{"name": "v"}, "")
	if got != "match {1,2} times and {a-b} but v" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildPrompt_InsertedValuesNotRescanned(t *testing.T) {
	tpl := &ResolvedTemplate{Key: "x", PromptTemplate: "v={a}"}
	got := BuildPrompt(tpl, map[string]string{"a": "{b}", "b": "boom"}, "")
	if got != "v={b}" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildPrompt_UnterminatedBraceKeptVerbatim(t *testing.T) {
	tpl := &ResolvedTemplate{Key: "x", PromptTemplate: "tail {unclosed"}
	got := BuildPrompt(tpl, nil, "")
	if got != "tail {unclosed" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildPrompt_ExamplesBinding(t *testing.T) {
	tpl := &ResolvedTemplate{
		Key:            "x",
		PromptTemplate: "ref:\n{examples}\nctx:{context}",
		ExampleContent: "past article",
	}
	got := BuildPrompt(tpl, nil, "uploaded doc")
	if !strings.Contains(got, "past article") || !strings.Contains(got, "uploaded doc") {
		t.Fatalf("got %q", got)
	}
}

func TestBuildPrompt_NilTemplateFallsBack(t *testing.T) {
	got := BuildPrompt(nil, map[string]string{"b": "2", "a": "1"}, "ctx")
	if !strings.Contains(got, `"a": "1"`) || !strings.Contains(got, `"b": "2"`) {
		t.Fatalf("fallback missing form data: %q", got)
	}
	if !strings.Contains(got, "ctx") {
		t.Fatalf("fallback missing context: %q", got)
	}
	// Stable key order.
	if strings.Index(got, `"a"`) > strings.Index(got, `"b"`) {
		t.Fatalf("keys not sorted: %q", got)
	}
}

func builtinResolved(key string) (*ResolvedTemplate, bool) {
	b, ok := builtinTemplates[key]
	if !ok {
		return nil, false
	}
	return &ResolvedTemplate{Key: b.Key, PromptTemplate: b.PromptTemplate, Builtin: true}, true
}
