// Package converter moves templates between the section model and markdown documents.
package converter

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	models "quizdash/internal/domain/models/report"
)

// IntroductionTitle names the section built from text that precedes the first level-2 heading.
const IntroductionTitle = "Introduction"

// MarkdownDocument is a markdown file split into sections
type MarkdownDocument struct {
	Title    string // Text of a leading level-1 heading, if any
	Sections []models.Section
}

// Importer turns markdown into sections. Each level-2 heading starts a section;
// its body is rendered to HTML. Headings inside fenced code blocks are ignored.
//
// Thread-safe for concurrent use.
type Importer struct {
	md goldmark.Markdown
}

// NewImporter creates a markdown importer with GitHub-flavored extensions.
// Raw HTML is passed through; the template save path validates and sanitizes it.
func NewImporter() *Importer {
	return &Importer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

type chunk struct {
	title string
	body  []string
}

// Import splits markdown into sections
func (im *Importer) Import(markdown string) (*MarkdownDocument, error) {
	doc := &MarkdownDocument{}

	var (
		chunks  []chunk
		current *chunk
		preface []string
		fence   string
	)

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		} else if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
		} else if title, ok := headingText(line, 2); ok {
			chunks = append(chunks, chunk{title: title})
			current = &chunks[len(chunks)-1]
			continue
		} else if title, ok := headingText(line, 1); ok && current == nil && doc.Title == "" && isBlank(preface) {
			doc.Title = title
			continue
		}

		if current == nil {
			preface = append(preface, line)
		} else {
			current.body = append(current.body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	if !isBlank(preface) {
		title := IntroductionTitle
		if len(chunks) == 0 {
			title = models.LegacySectionTitle
		}
		chunks = append([]chunk{{title: title, body: preface}}, chunks...)
	}

	for _, c := range chunks {
		content, err := im.render(strings.Join(c.body, "\n"))
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, models.Section{
			ID:      models.NewSectionID(),
			Title:   c.title,
			Content: content,
		})
	}

	return doc, nil
}

func (im *Importer) render(body string) (string, error) {
	var buf bytes.Buffer
	if err := im.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// headingText returns the text of an ATX heading of exactly the given level
func headingText(line string, level int) (string, bool) {
	if len(line)-len(strings.TrimLeft(line, " ")) > 3 {
		return "", false
	}
	line = strings.TrimSpace(line)
	marker := strings.Repeat("#", level)
	if !strings.HasPrefix(line, marker) {
		return "", false
	}
	rest := line[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	// Optional closing sequence: "## Title ##"
	if i := strings.LastIndex(rest, " #"); i >= 0 && strings.Trim(rest[i+1:], "#") == "" {
		rest = strings.TrimSpace(rest[:i])
	} else if strings.Trim(rest, "#") == "" {
		rest = ""
	}
	return rest, true
}

func isBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// Exporter renders templates as markdown.
type Exporter struct {
	converter *md.Converter
}

// NewExporter creates an exporter that writes GitHub-flavored markdown
func NewExporter() *Exporter {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	return &Exporter{converter: conv}
}

// Export writes the template name as a level-1 heading and each section as a
// level-2 heading followed by its content converted to markdown.
func (e *Exporter) Export(name string, sections []models.Section) (string, error) {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "# %s\n\n", oneLine(name))
	}

	for _, s := range sections {
		body, err := e.converter.ConvertString(s.Content)
		if err != nil {
			return "", fmt.Errorf("convert section %q: %w", s.Title, err)
		}
		fmt.Fprintf(&b, "## %s\n\n", oneLine(s.Title))
		if body = strings.TrimSpace(body); body != "" {
			b.WriteString(body)
			b.WriteString("\n\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
