package sanitizer

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	reportSvc "quizdash/internal/domain/services/report"
)

// maxPasses bounds the fixed-point loop in Sanitize.
const maxPasses = 8

var colorValue = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\([0-9\s.,%]+\)|[a-zA-Z]+)$`)

// HTMLSanitizer removes dangerous HTML elements and attributes from section content.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
	titles *bluemonday.Policy
}

var _ reportSvc.ContentSanitizer = (*HTMLSanitizer)(nil)

// NewHTMLSanitizer creates a sanitizer with the report editor's allow-list.
//
// Preserves:
// - Headings, paragraphs, line breaks and rules
// - Lists, blockquotes, code blocks and tables
// - Emphasis (strong, em, u, s, mark, sub, sup)
// - Links with http, https or mailto schemes
// - Images with http, https or data sources
// - color, background-color and text-align styles set by the editor
func NewHTMLSanitizer() *HTMLSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("p", "br", "hr", "div", "span")
	p.AllowElements("b", "strong", "i", "em", "u", "s", "strike", "del", "mark", "sub", "sup")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("blockquote", "code", "pre")

	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption")
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowAttrs("width", "height").Matching(bluemonday.NumberOrPercent).OnElements("img")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowDataURIImages()
	p.RequireParseableURLs(true)

	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()

	p.AllowStyles("color", "background-color").Matching(colorValue).Globally()
	p.AllowStyles("text-align").MatchingEnum("left", "right", "center", "justify").Globally()

	return &HTMLSanitizer{policy: p, titles: bluemonday.StrictPolicy()}
}

// Sanitize removes everything Validate would flag while keeping the allow-list.
// Each pass runs the policy and then rebuilds the markup through the HTML5
// parser so every tag is balanced. Passes repeat until the output stops
// changing, so Sanitize(Sanitize(x)) == Sanitize(x).
func (s *HTMLSanitizer) Sanitize(content string) string {
	out := s.pass(content)
	for i := 1; i < maxPasses; i++ {
		next := s.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// SanitizeTitle strips all markup from a section title and returns plain text.
func (s *HTMLSanitizer) SanitizeTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(s.titles.Sanitize(title)))
}

func (s *HTMLSanitizer) pass(content string) string {
	return balance(s.policy.Sanitize(content))
}

// balance parses content as the children of a <body> and renders the resulting
// tree, closing unclosed elements and dropping stray end tags on the way.
func balance(content string) string {
	if content == "" {
		return ""
	}

	body := &nethtml.Node{Type: nethtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := nethtml.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return content
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := nethtml.Render(&b, n); err != nil {
			return content
		}
	}
	return b.String()
}

// Validate checks content against the markup rules. See ValidateHTML.
func (s *HTMLSanitizer) Validate(content string) reportSvc.ValidationResult {
	return ValidateHTML(content)
}
