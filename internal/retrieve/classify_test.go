package retrieve

import (
	"testing"

	"docchat/internal/document"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Kind
	}{
		{"chapter count is structure", "Quantos capítulos tem o documento?", KindStructure},
		{"unaccented chapter count", "quantos capitulos existem?", KindStructure},
		{"summary keyword", "Mostre o sumário do livro", KindStructure},
		{"organization keyword", "Como é a organização do texto?", KindStructure},
		{"ordinal chapter", "O que fala o segundo capítulo?", KindChapter},
		{"last chapter", "Resuma o último capítulo", KindChapter},
		{"numbered chapter", "Explique o capítulo 4", KindChapter},
		{"free text is content", "Qual a taxa de juros mencionada?", KindContent},
		{"empty query is content", "", KindContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.query, got, tt.want)
			}
			// Pure function: a second call must agree.
			if again := Classify(tt.query); again != got {
				t.Errorf("Classify(%q) not idempotent: %v then %v", tt.query, got, again)
			}
		})
	}
}

func TestClassifyStructureBeatsChapter(t *testing.T) {
	// Mentions both a chapter and the overall structure; structure wins.
	got := Classify("Quantos capítulos tem, e do que fala o primeiro capítulo?")
	if got != KindStructure {
		t.Errorf("got %v, want %v", got, KindStructure)
	}
}

func TestResolveChapter(t *testing.T) {
	st := document.Structure{
		Chapters: []document.Chapter{
			{Number: 1, Title: "Introdução"},
			{Number: 2, Title: "Fundamentos"},
			{Number: 3, Title: "Conclusão"},
		},
	}

	tests := []struct {
		name   string
		query  string
		want   int
		wantOK bool
	}{
		{"ordinal first", "o que fala o primeiro capítulo?", 1, true},
		{"ordinal second", "resuma o segundo capítulo", 2, true},
		{"feminine ordinal", "a terceira parte do capítulo", 3, true},
		{"last resolves to highest", "o que diz o último capítulo?", 3, true},
		{"unaccented last", "explique o ultimo capitulo", 3, true},
		{"explicit number", "explique o capítulo 2", 2, true},
		{"english pattern", "summarize chapter 3", 3, true},
		{"number before word", "o 2º capítulo trata de quê?", 2, true},
		{"no chapter named", "qual a taxa de juros?", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveChapter(tt.query, st)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveChapter(%q) = (%d, %v), want (%d, %v)",
					tt.query, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveChapterLastWithoutChapters(t *testing.T) {
	_, ok := ResolveChapter("o último capítulo", document.Structure{})
	if ok {
		t.Error("expected no resolution when the document has no chapters")
	}
}
