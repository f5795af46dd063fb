package retrieve

import (
	"strings"
	"testing"

	"docchat/internal/document"
)

func chunksFrom(texts ...string) []document.Chunk {
	chunks := make([]document.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = document.Chunk{
			Content: text,
			Index:   i,
			Metadata: document.Metadata{
				Source:     "test.txt",
				ChunkIndex: i,
				ChunkCount: len(texts),
			},
		}
	}
	return chunks
}

func indexesOf(chunks []document.Chunk) []int {
	out := make([]int, len(chunks))
	for i, c := range chunks {
		out[i] = c.Index
	}
	return out
}

func TestKeywords(t *testing.T) {
	lang := DefaultLanguage()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"drops stopwords and punctuation", "Qual é a taxa de juros?", []string{"taxa", "juros"}},
		{"drops short tokens", "o ar é um gás", []string{"gás"}},
		{"keeps accented words", "qual o conteúdo?", []string{"conteúdo"}},
		{"all stopwords", "o que é", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.query, lang)
			if len(got) != len(tt.want) {
				t.Fatalf("Keywords(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Keywords(%q)[%d] = %q, want %q", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSearchKeywordsRanksMatchingChunkFirst(t *testing.T) {
	chunks := chunksFrom(
		"Este trecho descreve paisagens e clima da região serrana.",
		"A taxa de juros do contrato é de 2% ao mês, e os juros são compostos.",
		"Notas finais sem relação com finanças.",
	)

	got := SearchKeywords("Qual a taxa de juros?", chunks, 2, DefaultLanguage())
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].Index != 1 {
		t.Errorf("top chunk index = %d, want 1", got[0].Index)
	}
}

func TestSearchKeywordsSynonymExpansion(t *testing.T) {
	chunks := chunksFrom(
		"Paisagens e clima da região serrana.",
		"Este trecho aborda finanças pessoais em detalhe.",
	)

	// "fala" never appears, but its synonym "aborda" does.
	got := SearchKeywords("sobre o que fala este trecho?", chunks, 1, DefaultLanguage())
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0].Index != 1 {
		t.Errorf("top chunk index = %d, want 1", got[0].Index)
	}
}

func TestSearchKeywordsNoMatchFallsBackToDocumentOrder(t *testing.T) {
	chunks := chunksFrom(
		"Primeiro trecho neutro.",
		"Segundo trecho neutro.",
		"Terceiro trecho neutro.",
		"Quarto trecho neutro.",
	)

	got := SearchKeywords("xilofone zumbido", chunks, 3, DefaultLanguage())
	want := []int{0, 1, 2}
	idx := indexesOf(got)
	if len(idx) != len(want) {
		t.Fatalf("got %v, want %v", idx, want)
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("got %v, want %v", idx, want)
		}
	}
}

func TestSearchKeywordsEmptyQueryFallsBack(t *testing.T) {
	chunks := chunksFrom("um", "dois", "três")

	got := SearchKeywords("o que é?", chunks, 2, DefaultLanguage())
	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("got %v, want first two chunks in order", indexesOf(got))
	}
}

func TestSearchKeywordsNeverExceedsChunkCount(t *testing.T) {
	chunks := chunksFrom("juros simples", "juros compostos")

	got := SearchKeywords("juros", chunks, 10, DefaultLanguage())
	if len(got) != 2 {
		t.Errorf("got %d chunks, want 2", len(got))
	}
}

func TestSearchKeywordsDeterministic(t *testing.T) {
	chunks := chunksFrom(
		"A taxa de juros aparece aqui uma vez.",
		"Juros, juros e mais juros neste trecho.",
		"Trecho neutro sem os termos buscados.",
		"A taxa aparece isolada neste trecho.",
	)
	lang := DefaultLanguage()

	first := indexesOf(SearchKeywords("taxa de juros", chunks, 3, lang))
	for i := 0; i < 10; i++ {
		again := indexesOf(SearchKeywords("taxa de juros", chunks, 3, lang))
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d returned %v, first run returned %v", i, again, first)
			}
		}
	}
}

func TestSearchKeywordsEarlyMentionOutranksLate(t *testing.T) {
	late := "Texto introdutório longo que adia o assunto. " +
		strings.Repeat("preenchimento ", 30) + "Só aqui surgem os juros."
	early := "Os juros aparecem logo no início deste trecho. " +
		strings.Repeat("preenchimento ", 30)

	chunks := chunksFrom(late, early)
	got := SearchKeywords("juros", chunks, 1, DefaultLanguage())
	if got[0].Index != 1 {
		t.Errorf("top chunk index = %d, want 1 (early mention)", got[0].Index)
	}
}

func TestSearchKeywordsZeroKReturnsNothing(t *testing.T) {
	chunks := chunksFrom("juros")
	if got := SearchKeywords("juros", chunks, 0, DefaultLanguage()); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := SearchKeywords("juros", nil, 3, DefaultLanguage()); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
