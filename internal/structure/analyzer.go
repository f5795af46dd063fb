// Package structure scans document text for chapters, page markers, and
// table-of-contents regions, and renders the result as a compact document
// map for model context.
package structure

import (
	"regexp"
	"strconv"
	"strings"

	"docchat/internal/document"
)

// Context window sizes, in lines, captured around each kind of match.
const (
	pageContextBefore = 2
	pageContextAfter  = 10
	chapterContext    = 20
	tocContext        = 50
)

type patternKind int

const (
	kindChapter patternKind = iota
	kindPage
)

// headerPattern pairs a header regexp with what it detects. Patterns are
// evaluated in priority order and the first match wins for a line.
type headerPattern struct {
	re   *regexp.Regexp
	kind patternKind
}

// headerPatterns covers Portuguese and English chapter markers, generic
// numbered headers, and the explicit page-break marker emitted by the PDF
// parser.
var headerPatterns = []headerPattern{
	{regexp.MustCompile(`(?i)Cap[íi]tulo\s+(\d+)[\s:.-]+(.+)$`), kindChapter},
	{regexp.MustCompile(`(?i)Chapter\s+(\d+)[\s:.-]+(.+)$`), kindChapter},
	{regexp.MustCompile(`^\s*(\d+)\s*[-–—.]\s*(.+)$`), kindChapter},
	{regexp.MustCompile(`^\s*(\d+)\.\s+(.+)$`), kindChapter},
	{regexp.MustCompile(`(?i)---\s*P[áa]gina\s+(\d+)\s*---`), kindPage},
}

var tocPattern = regexp.MustCompile(`(?i)(sum[áa]rio|[íi]ndice|table of contents|contents)`)

// Analyze builds the structural index for a document. It never fails:
// a document with no detectable structure yields empty collections.
func Analyze(text string) document.Structure {
	var st document.Structure
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		for _, p := range headerPatterns {
			m := p.re.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			switch p.kind {
			case kindPage:
				number, _ := strconv.Atoi(m[1])
				st.Pages = append(st.Pages, document.Page{
					Number:  number,
					Line:    i,
					Context: contextLines(lines, i-pageContextBefore, i+pageContextAfter),
				})
			case kindChapter:
				number, _ := strconv.Atoi(m[1])
				st.Chapters = append(st.Chapters, document.Chapter{
					Number:  number,
					Title:   strings.TrimSpace(m[2]),
					Line:    i,
					Context: contextLines(lines, i, i+chapterContext),
				})
			}
			break
		}

		// The TOC scan is independent of the header scan: a line can be
		// both a chapter header and part of a contents region.
		if tocPattern.MatchString(trimmed) {
			st.TOCs = append(st.TOCs, document.TOC{
				Line:    i,
				Context: contextLines(lines, i, i+tocContext),
			})
		}
	}

	return st
}

// ChapterText extracts the full text of the chapter with the given number.
// A chapter's span runs from its header line to the next chapter's header
// line, or to the end of the document for the last chapter. The second
// return is false when no chapter with that number was detected.
func ChapterText(text string, number int, st document.Structure) (string, bool) {
	var current *document.Chapter
	var next *document.Chapter

	for i := range st.Chapters {
		if st.Chapters[i].Number == number {
			current = &st.Chapters[i]
			if i+1 < len(st.Chapters) {
				next = &st.Chapters[i+1]
			}
			break
		}
	}
	if current == nil {
		return "", false
	}

	lines := strings.Split(text, "\n")
	start := current.Line
	end := len(lines)
	if next != nil {
		end = next.Line
	}
	if start < 0 || start >= len(lines) || start >= end {
		return "", false
	}
	return strings.Join(lines[start:end], "\n"), true
}

func contextLines(lines []string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return ""
	}
	return strings.Join(lines[from:to], "\n")
}
