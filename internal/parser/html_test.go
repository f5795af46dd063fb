package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_ExtractsContent(t *testing.T) {
	input := `<html><head><title>Guia</title><style>p{color:red}</style></head>
<body>
<h1>Capítulo 1 - Introdução</h1>
<p>Primeiro parágrafo do guia.</p>
<h2>Detalhes</h2>
<p>Segundo parágrafo com os detalhes.</p>
<script>alert("x")</script>
</body></html>`

	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader(input), "guia.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, w := range []string{
		"Capítulo 1 - Introdução",
		"Primeiro parágrafo do guia.",
		"Detalhes",
		"Segundo parágrafo com os detalhes.",
	} {
		if !strings.Contains(got, w) {
			t.Errorf("expected output to contain %q, got %q", w, got)
		}
	}
	if strings.Contains(got, "alert") || strings.Contains(got, "color:red") {
		t.Errorf("script/style content leaked into output: %q", got)
	}
}

func TestHTMLParser_ListItems(t *testing.T) {
	input := `<body><ul><li>primeiro item</li><li>segundo item</li></ul></body>`
	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader(input), "lista.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "primeiro item") || !strings.Contains(got, "segundo item") {
		t.Errorf("expected list items in output, got %q", got)
	}
}

func TestHTMLParser_EmptyDocument(t *testing.T) {
	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader("<html><body></body></html>"), "vazio.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
