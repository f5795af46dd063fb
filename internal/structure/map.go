package structure

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"docchat/internal/document"
)

// Truncation limits for the rendered map.
const (
	mapMaxChapters     = 20
	mapMaxTitleChars   = 100
	mapMaxTOCChars     = 1000
	chapterTextMaxSize = 5000
)

// BuildMap renders the structural index as a compact text block suitable
// for inclusion in model context. Pure formatting; no ranking or inference.
func BuildMap(text string, st document.Structure) string {
	var sb strings.Builder
	sb.WriteString("=== MAPA DO DOCUMENTO ===\n\n")

	fmt.Fprintf(&sb, "Total de caracteres: %d\n", len(text))
	fmt.Fprintf(&sb, "Páginas identificadas: %d\n", len(st.Pages))
	fmt.Fprintf(&sb, "Capítulos identificados: %d\n\n", len(st.Chapters))

	if len(st.Chapters) > 0 {
		sb.WriteString("CAPÍTULOS ENCONTRADOS:\n")
		for i, ch := range st.Chapters {
			if i >= mapMaxChapters {
				break
			}
			fmt.Fprintf(&sb, "• Capítulo %d: %s\n", ch.Number, truncate(ch.Title, mapMaxTitleChars))
		}
		sb.WriteString("\n")
	}

	if len(st.Pages) > 0 {
		sb.WriteString("PÁGINAS IDENTIFICADAS:\n")
		fmt.Fprintf(&sb, "De página %d até %d\n\n", st.Pages[0].Number, st.Pages[len(st.Pages)-1].Number)
	}

	if len(st.TOCs) > 0 {
		sb.WriteString("ÍNDICE/SUMÁRIO ENCONTRADO:\n")
		sb.WriteString(truncate(st.TOCs[0].Context, mapMaxTOCChars))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// TruncatedChapterText is ChapterText capped at the model-context budget.
func TruncatedChapterText(text string, number int, st document.Structure) (string, bool) {
	content, ok := ChapterText(text, number, st)
	if !ok {
		return "", false
	}
	return truncate(content, chapterTextMaxSize), true
}

// truncate caps s at n bytes, backing off to a rune boundary so accented
// text is never cut mid-character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
