package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsBecomeLines(t *testing.T) {
	input := `# Manual

Texto de introdução.

## 1. Primeira Parte

Conteúdo da primeira parte.

## 2. Segunda Parte

Conteúdo da segunda parte.
`
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Heading markup is stripped but the heading text survives as its
	// own paragraph, in document order.
	wantOrder := []string{
		"Manual",
		"Texto de introdução.",
		"1. Primeira Parte",
		"Conteúdo da primeira parte.",
		"2. Segunda Parte",
		"Conteúdo da segunda parte.",
	}
	pos := -1
	for _, w := range wantOrder {
		idx := strings.Index(got, w)
		if idx < 0 {
			t.Fatalf("expected output to contain %q, got %q", w, got)
		}
		if idx < pos {
			t.Errorf("block %q out of order in %q", w, got)
		}
		pos = idx
	}
	if strings.Contains(got, "#") {
		t.Errorf("heading markup leaked into output: %q", got)
	}
}

func TestMarkdownParser_CodeBlocksKept(t *testing.T) {
	input := "# API\n\nIntro.\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "GET /api/users") {
		t.Errorf("expected code block content in output, got %q", got)
	}
	if !strings.Contains(got, "More text after code.") {
		t.Errorf("expected post-code text, got %q", got)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "Just some plain text.") {
		t.Errorf("expected first paragraph, got %q", got)
	}
	if !strings.Contains(got, "Another paragraph here.") {
		t.Errorf("expected second paragraph, got %q", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
