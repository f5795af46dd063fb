// Package retrieve selects the document chunks most relevant to a query.
// It classifies the query's intent, branches into structural, chapter, or
// content retrieval, and merges the results into a deduplicated ranked set.
package retrieve

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"docchat/internal/document"
	"docchat/internal/structure"
)

// Limits for the structural branch.
const (
	structuralScanWindow = 50 // Chunks from the document head scanned for structural text.
	structuralMaxChunks  = 5
)

// structuralKeywords identify chunks that carry front-matter or
// table-of-contents text.
var structuralKeywords = []string{
	"sumário", "índice", "capítulo", "contents",
	"table of contents", "prefácio",
}

var pageCountQuery = regexp.MustCompile(`(?i)quantas\s+p[áa]ginas|n[úu]mero\s+de\s+p[áa]ginas`)

// Document is the read-only view of session state the retriever operates
// on. Callers own the state; the retriever never mutates it.
type Document struct {
	Text      string
	Chunks    []document.Chunk
	Structure document.Structure
	Map       string
	Pages     int
}

// Result is a ranked, deduplicated chunk selection plus optional extra
// context to prepend to the model input.
type Result struct {
	Kind         Kind
	Chunks       []document.Chunk
	ExtraContext string
}

// Retriever orchestrates classification, structural lookup, and keyword
// scoring over a session's document.
type Retriever struct {
	lang Language
	log  *slog.Logger
}

func New(lang Language, log *slog.Logger) *Retriever {
	return &Retriever{lang: lang, log: log}
}

// Retrieve returns at most 2k chunks relevant to the query, plus any extra
// context the branch produced. It degrades rather than fails: every branch
// tops up from keyword search, and an empty document yields empty results.
func (r *Retriever) Retrieve(query string, doc Document, k int) Result {
	if k <= 0 || len(doc.Chunks) == 0 {
		return Result{Kind: Classify(query)}
	}

	// Page-count questions are answered from document metadata directly;
	// no chunk carries this information.
	if pageCountQuery.MatchString(query) && doc.Pages > 0 {
		return Result{
			Kind:   KindContent,
			Chunks: []document.Chunk{pageInfoChunk(doc)},
		}
	}

	kind := Classify(query)
	result := Result{Kind: kind}

	switch kind {
	case KindStructure:
		result.ExtraContext = structureContext(doc.Map)
		result.Chunks = structuralChunks(doc.Chunks)

	case KindChapter:
		number, ok := ResolveChapter(query, doc.Structure)
		if ok {
			if content, found := structure.TruncatedChapterText(doc.Text, number, doc.Structure); found {
				result.ExtraContext = chapterContext(number, content)
				result.Chunks = chapterChunks(doc.Chunks, number, k)
				break
			}
		}
		// Chapter resolution or extraction failed: treat as a content
		// question over the raw query.
		result.Chunks = SearchKeywords(query, doc.Chunks, k*2, r.lang)

	default:
		result.Chunks = SearchKeywords(query, doc.Chunks, k*2, r.lang)
	}

	// Top up underdelivering branches so the caller never gets fewer than
	// k chunks while k or more exist.
	if len(result.Chunks) < k {
		extra := SearchKeywords(query, doc.Chunks, k-len(result.Chunks), r.lang)
		result.Chunks = append(result.Chunks, extra...)
	}

	result.Chunks = dedupe(result.Chunks)
	if len(result.Chunks) > k*2 {
		result.Chunks = result.Chunks[:k*2]
	}

	r.log.Info("retrieved chunks",
		"kind", kind.String(),
		"chunks", len(result.Chunks),
		"extra_context", len(result.ExtraContext) > 0,
	)
	return result
}

func chapterContext(number int, content string) string {
	return fmt.Sprintf(`CONTEÚDO DO CAPÍTULO %d:
%s

Use esse conteúdo para responder sobre o capítulo solicitado.
`, number, content)
}

func structureContext(docMap string) string {
	return fmt.Sprintf(`ESTRUTURA DO DOCUMENTO:
%s

Use essas informações para responder sobre a estrutura geral do documento.
`, docMap)
}

// structuralChunks scans the head of the document for chunks carrying
// front-matter text: contents listings, prefaces, chapter headers.
func structuralChunks(chunks []document.Chunk) []document.Chunk {
	window := chunks
	if len(window) > structuralScanWindow {
		window = window[:structuralScanWindow]
	}

	var selected []document.Chunk
	for _, chunk := range window {
		text := strings.ToLower(chunk.Content)
		for _, kw := range structuralKeywords {
			if strings.Contains(text, kw) {
				selected = append(selected, chunk)
				break
			}
		}
		if len(selected) == structuralMaxChunks {
			break
		}
	}
	return selected
}

// chapterChunks returns up to k chunks whose text references the given
// chapter number: a literal "capítulo N"/"chapter N" mention or a line
// starting with "N" plus a separator.
func chapterChunks(chunks []document.Chunk, number int, k int) []document.Chunk {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`cap[íi]tulo %d\b`, number)),
		regexp.MustCompile(fmt.Sprintf(`chapter %d\b`, number)),
		regexp.MustCompile(fmt.Sprintf(`(?m)^%d[\s.-]`, number)),
	}

	var selected []document.Chunk
	for _, chunk := range chunks {
		text := strings.ToLower(chunk.Content)
		for _, re := range patterns {
			if re.MatchString(text) {
				selected = append(selected, chunk)
				break
			}
		}
		if len(selected) == k {
			break
		}
	}
	return selected
}

func pageInfoChunk(doc Document) document.Chunk {
	return document.Chunk{
		Content: fmt.Sprintf("O documento possui %d páginas.", doc.Pages),
		Index:   -1,
		Metadata: document.Metadata{
			Source:     "info",
			ChunkIndex: -1,
		},
	}
}

// dedupe drops repeated chunks by index, preserving first-seen order.
func dedupe(chunks []document.Chunk) []document.Chunk {
	seen := make(map[int]bool, len(chunks))
	unique := chunks[:0:0]
	for _, chunk := range chunks {
		if seen[chunk.Index] {
			continue
		}
		seen[chunk.Index] = true
		unique = append(unique, chunk)
	}
	return unique
}
