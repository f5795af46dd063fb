// Package document holds the shared data model for a loaded document:
// its chunks, the structural index derived from its text, and a few
// text-level helpers (hashing, page counting, previews).
package document

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Metadata describes where a chunk came from within its document.
type Metadata struct {
	Source     string `json:"source"`      // Source type label (Pdf, Txt, Site, ...).
	DocHash    string `json:"doc_hash"`    // SHA-256 of the full document text.
	ChunkIndex int    `json:"chunk_index"` // Zero-based position among the chunks.
	ChunkCount int    `json:"chunk_count"` // Total chunks for this document.
}

// Chunk is a bounded, overlapping segment of a document's text.
// Consecutive chunks share an overlap region so a term near a boundary
// can be matched from either side.
type Chunk struct {
	Content  string   `json:"content"`
	Index    int      `json:"index"`
	Metadata Metadata `json:"metadata"`
}

// Chapter is a detected chapter header and its surrounding context.
type Chapter struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Line    int    `json:"line"`    // Zero-based line where the header appears.
	Context string `json:"context"` // Header line plus the following lines.
}

// Page is a detected page-break marker.
type Page struct {
	Number  int    `json:"number"`
	Line    int    `json:"line"`
	Context string `json:"context"`
}

// TOC is a detected table-of-contents region.
type TOC struct {
	Line    int    `json:"line"`
	Context string `json:"context"`
}

// Structure is the structural index of a document. Chapters appear in
// document order, not necessarily numeric order. Empty collections are a
// valid result: absence of structure is not a fault.
type Structure struct {
	Chapters []Chapter `json:"chapters"`
	Pages    []Page    `json:"pages"`
	TOCs     []TOC     `json:"tocs"`
}

// LastChapterNumber returns the number of the chapter that appears last in
// the document, or 0 when no chapters were detected.
func (s Structure) LastChapterNumber() int {
	if len(s.Chapters) == 0 {
		return 0
	}
	return s.Chapters[len(s.Chapters)-1].Number
}

// HashText computes the SHA-256 of the document text as a hex string.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h[:])
}

// charsPerPage is the estimate used when no explicit page markers exist.
const charsPerPage = 3000

var pagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Total de p[áa]ginas:\s*(\d+)`),
	regexp.MustCompile(`(?i)P[áa]ginas:\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*p[áa]ginas`),
	regexp.MustCompile(`(?i)p[áa]gina\s*\d+\s*de\s*(\d+)`),
	regexp.MustCompile(`(?i)--- P[áa]gina\s+(\d+)\s+---`),
}

// CountPages estimates how many pages the document has. PDF-sourced text is
// scanned for explicit page markers first; the highest number found wins.
// Everything else falls back to a character-count estimate.
func CountPages(text, source string) int {
	if strings.HasSuffix(strings.ToLower(source), ".pdf") {
		maxPage := 0
		for _, re := range pagePatterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				if n, err := strconv.Atoi(m[1]); err == nil && n > maxPage {
					maxPage = n
				}
			}
		}
		if maxPage > 0 {
			return maxPage
		}
	}

	pages := len(text) / charsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Preview returns a representative excerpt: half the budget from the start,
// a quarter from the middle, a quarter from the end. Documents under the
// budget are returned whole.
func Preview(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	startSize := maxChars / 2
	midSize := maxChars / 4
	endSize := maxChars / 4

	start := text[:startSize]

	midPos := len(text) / 2
	midStart := midPos - midSize/2
	if midStart < 0 {
		midStart = 0
	}
	midEnd := midPos + midSize/2
	if midEnd > len(text) {
		midEnd = len(text)
	}
	mid := text[midStart:midEnd]

	end := text[len(text)-endSize:]

	return strings.Join([]string{start, "[...]", mid, "[...]", end}, "\n\n")
}
