package sanitizer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	reportSvc "quizdash/internal/domain/services/report"
)

// maxReasons caps how many reasons are reported for a single piece of content.
const maxReasons = 10

// disallowedElements are rejected outright, wherever they appear.
var disallowedElements = map[string]bool{
	"script": true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"style":  true,
}

// voidElements never have a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// urlAttributes are checked for script URLs.
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"xlink:href": true,
	"action":     true,
	"formaction": true,
}

// ValidateHTML reports why content would be rejected by the save gate:
// unbalanced or unclosed tags, disallowed elements, on* event handler
// attributes and javascript: URLs. Reasons are returned in document order.
func ValidateHTML(content string) reportSvc.ValidationResult {
	v := &htmlValidator{seen: make(map[string]bool)}
	v.run(content)

	return reportSvc.ValidationResult{
		IsValid: len(v.reasons) == 0,
		Errors:  v.reasons,
	}
}

type htmlValidator struct {
	stack   []string
	reasons []string
	seen    map[string]bool
}

func (v *htmlValidator) addf(format string, args ...interface{}) {
	if len(v.reasons) >= maxReasons {
		return
	}
	reason := fmt.Sprintf(format, args...)
	if v.seen[reason] {
		return
	}
	v.seen[reason] = true
	v.reasons = append(v.reasons, reason)
}

func (v *htmlValidator) run(content string) {
	z := html.NewTokenizer(strings.NewReader(content))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				v.addf("malformed markup: %v", err)
			}
			for i := len(v.stack) - 1; i >= 0; i-- {
				v.addf("unclosed tag <%s>", v.stack[i])
			}
			return

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			v.checkElement(tok)
			if tt == html.StartTagToken && !voidElements[tok.Data] {
				v.stack = append(v.stack, tok.Data)
			}

		case html.EndTagToken:
			tok := z.Token()
			if disallowedElements[tok.Data] {
				// already reported on the start tag, or a stray closing tag
				v.addf("disallowed element <%s>", tok.Data)
			}
			v.closeTag(tok.Data)
		}
	}
}

func (v *htmlValidator) checkElement(tok html.Token) {
	if disallowedElements[tok.Data] {
		v.addf("disallowed element <%s>", tok.Data)
	}

	for _, attr := range tok.Attr {
		key := strings.ToLower(attr.Key)
		if strings.HasPrefix(key, "on") {
			v.addf("disallowed attribute %s on <%s>", key, tok.Data)
			continue
		}
		if urlAttributes[key] && IsScriptURL(attr.Val) {
			v.addf("javascript: URL in %s on <%s>", key, tok.Data)
		}
	}
}

func (v *htmlValidator) closeTag(name string) {
	if voidElements[name] {
		return
	}

	for i := len(v.stack) - 1; i >= 0; i-- {
		if v.stack[i] != name {
			continue
		}
		for j := len(v.stack) - 1; j > i; j-- {
			v.addf("unclosed tag <%s>", v.stack[j])
		}
		v.stack = v.stack[:i]
		return
	}

	v.addf("unexpected closing tag </%s>", name)
}

// IsScriptURL reports whether a URL attribute value uses the javascript: scheme,
// ignoring case, surrounding whitespace and embedded control characters.
func IsScriptURL(raw string) bool {
	var b strings.Builder
	for _, r := range html.UnescapeString(raw) {
		if r <= ' ' || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.HasPrefix(strings.ToLower(b.String()), "javascript:")
}
