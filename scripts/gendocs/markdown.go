package main

import (
	"bytes"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// generatedMarker tells readers not to edit a page by hand.
const generatedMarker = "<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->"

// MarkdownWriter accumulates a markdown page.
type MarkdownWriter struct {
	buf bytes.Buffer
}

// NewMarkdownWriter returns an empty page.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes a YAML frontmatter block.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.buf.WriteString("---\n")
	w.buf.WriteString("title: " + quoteYAML(title) + "\n")
	w.buf.WriteString("description: " + quoteYAML(description) + "\n")
	w.buf.WriteString("---\n\n")
}

// GeneratedMarker writes the do-not-edit comment.
func (w *MarkdownWriter) GeneratedMarker() {
	w.buf.WriteString(generatedMarker + "\n\n")
}

// Header writes a header of the given level.
func (w *MarkdownWriter) Header(level int, text string) {
	level = max(1, min(level, 6))
	w.buf.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
}

// Paragraph writes a block of text.
func (w *MarkdownWriter) Paragraph(text string) {
	w.buf.WriteString(strings.TrimSpace(text) + "\n\n")
}

// CodeBlock writes fenced code.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	w.buf.WriteString("```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```\n\n")
}

// BulletList writes one item per line.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.buf.WriteString("- " + item + "\n")
	}
	w.buf.WriteString("\n")
}

// Table writes a markdown table.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	t := table.NewWriter()

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}

	w.buf.WriteString(t.RenderMarkdown() + "\n\n")
}

// Bytes returns the page.
func (w *MarkdownWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription folds a description onto one line for a table cell.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func quoteYAML(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
