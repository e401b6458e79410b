package services

import (
	"encoding/json"
	"sort"
	"strings"
)

// BuildPrompt binds a resolved template, the caller's form fields and an
// optional reference context into one prompt string. It never fails:
// a nil template produces the generic fallback prompt, and placeholder
// names with no value substitute to the empty string.
//
// Substitution is a single literal pass over the skeleton. {name} tokens
// are replaced from the form data plus the two always-available names
// `context` and `examples`; text inserted by a substitution is never
// rescanned, and brace sequences that are not plain identifier tokens
// (e.g. "{1,2}") pass through verbatim.
func BuildPrompt(tpl *ResolvedTemplate, formData map[string]string, contextText string) string {
	if tpl == nil {
		return fallbackPrompt(formData, contextText)
	}

	vars := make(map[string]string, len(formData)+2)
	for k, v := range formData {
		vars[k] = v
	}
	vars["context"] = contextText
	vars["examples"] = tpl.ExampleContent

	return substitute(tpl.PromptTemplate, vars)
}

func substitute(skeleton string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(skeleton))

	for i := 0; i < len(skeleton); {
		c := skeleton[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}

		rel := strings.IndexByte(skeleton[i:], '}')
		if rel < 0 {
			b.WriteString(skeleton[i:])
			break
		}

		name := skeleton[i+1 : i+rel]
		if !isPlaceholderName(name) {
			b.WriteString(skeleton[i : i+rel+1])
			i += rel + 1
			continue
		}

		b.WriteString(vars[name])
		i += rel + 1
	}

	return b.String()
}

func isPlaceholderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// fallbackPrompt covers the unknown-template case: the raw form data is
// serialized as structured text so the model still has everything the
// caller typed.
func fallbackPrompt(formData map[string]string, contextText string) string {
	var b strings.Builder
	b.WriteString("请根据以下信息写一篇宣传稿：\n")
	b.WriteString(marshalFormData(formData))
	b.WriteString("\n\n参考材料：\n")
	b.WriteString(contextText)
	return b.String()
}

// marshalFormData renders form fields as one JSON object with stable key
// order so identical requests produce identical prompts.
func marshalFormData(formData map[string]string) string {
	if len(formData) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(formData))
	for k := range formData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(formData[k])
		b.Write(kb)
		b.WriteString(": ")
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.String()
}
