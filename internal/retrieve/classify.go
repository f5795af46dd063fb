package retrieve

import (
	"regexp"
	"strconv"
	"strings"

	"docchat/internal/document"
)

// Kind is the detected intent of a query. Exactly one kind applies.
type Kind int

const (
	// KindContent is the catch-all: a free-text question about the
	// document's content.
	KindContent Kind = iota
	// KindStructure asks about the document's overall organization.
	KindStructure
	// KindChapter asks about one specific chapter.
	KindChapter
)

func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindChapter:
		return "chapter"
	default:
		return "content"
	}
}

// structurePhrases mark a general-structure question. Checked before the
// chapter phrases: a query can mention both, and structure intent is the
// rarer, more specific one in this taxonomy.
var structurePhrases = []string{
	"quantos capítulos", "quantos capitulos",
	"estrutura", "organização", "índice", "sumário",
	"lista de capítulos", "todos os capítulos",
}

// chapterPhrases mark a specific-chapter question.
var chapterPhrases = []string{
	"primeiro capítulo", "segundo capítulo", "terceiro capítulo",
	"último capítulo", "capítulo", "capitulo",
}

var chapterNumberQuery = regexp.MustCompile(`(?i)cap[íi]tulo\s+\d+`)

// Classify assigns a query exactly one Kind. Pure and idempotent; first
// match wins in the order structure, chapter, content.
func Classify(query string) Kind {
	q := strings.ToLower(query)

	for _, phrase := range structurePhrases {
		if strings.Contains(q, phrase) {
			return KindStructure
		}
	}

	for _, phrase := range chapterPhrases {
		if strings.Contains(q, phrase) {
			return KindChapter
		}
	}
	if chapterNumberQuery.MatchString(q) {
		return KindChapter
	}

	return KindContent
}

// lastChapter is the ordinal sentinel for "último": it resolves to the
// highest chapter number present in the structural index at lookup time.
const lastChapter = -1

// ordinalChapters maps ordinal words to chapter numbers, both gender forms.
var ordinalChapters = []struct {
	word   string
	number int
}{
	{"primeiro", 1}, {"primeira", 1},
	{"segundo", 2}, {"segunda", 2},
	{"terceiro", 3}, {"terceira", 3},
	{"quarto", 4}, {"quarta", 4},
	{"quinto", 5}, {"quinta", 5},
	{"sexto", 6}, {"sexta", 6},
	{"sétimo", 7}, {"sétima", 7},
	{"oitavo", 8}, {"oitava", 8},
	{"nono", 9}, {"nona", 9},
	{"décimo", 10}, {"décima", 10},
	{"último", lastChapter}, {"última", lastChapter},
	{"ultimo", lastChapter}, {"ultima", lastChapter},
}

var chapterNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cap[íi]tulo\s+(\d+)`),
	regexp.MustCompile(`(?i)chapter\s+(\d+)`),
	regexp.MustCompile(`(?i)\b(\d+)[ºª°]?\s+cap[íi]tulo`),
}

// ResolveChapter extracts the chapter number a query refers to. Ordinal
// words are checked first, then numeric patterns. The second return is
// false when the query names no resolvable chapter; callers treat that as
// indeterminate and fall back to content search, never as an error.
func ResolveChapter(query string, st document.Structure) (int, bool) {
	q := strings.ToLower(query)

	for _, ord := range ordinalChapters {
		if !strings.Contains(q, ord.word) {
			continue
		}
		if ord.number == lastChapter {
			if n := st.LastChapterNumber(); n > 0 {
				return n, true
			}
			return 0, false
		}
		return ord.number, true
	}

	for _, re := range chapterNumberPatterns {
		if m := re.FindStringSubmatch(q); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, true
			}
		}
	}

	return 0, false
}
