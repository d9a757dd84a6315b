package forms

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// RenderDescription converts Markdown help text into sanitized HTML. Text
// that fails to convert is escaped verbatim.
func RenderDescription(source string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(trimmed), &buf); err != nil {
		return html.EscapeString(trimmed)
	}
	return strings.TrimSpace(descriptionSanitizer().Sanitize(buf.String()))
}

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("p", "em", "strong", "code", "br", "ul", "ol", "li")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}
