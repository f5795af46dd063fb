package retrieve

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"docchat/internal/document"
)

// Scoring weights. Longer keywords signal specificity, early mentions are
// topic-defining, and covering several distinct query terms beats repeating
// one. Chunk length acts only as a mild tie-breaker.
const (
	frequencyWeight    = 2
	earlyMentionWeight = 5
	earlyMentionWindow = 300
	diversityBonus     = 20
	structuralBonus    = 30
	lengthBonusPerChar = 0.01
	minKeywordLength   = 3
)

var (
	punctuation      = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	chapterIndicator = regexp.MustCompile(`(?i)cap[íi]tulo|chapter|seção|secao`)
)

// Keywords normalizes a query into scoring keywords: punctuation stripped,
// lowercased, stopwords and short tokens dropped.
func Keywords(query string, lang Language) []string {
	normalized := punctuation.ReplaceAllString(strings.ToLower(query), "")

	var keywords []string
	for _, word := range strings.Fields(normalized) {
		if len([]rune(word)) < minKeywordLength {
			continue
		}
		if lang.isStopword(word) {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// expand widens keywords with the synonym table. Original keywords keep
// their position at the front; they alone count toward the diversity bonus.
func expand(keywords []string, lang Language) []string {
	expanded := make([]string, len(keywords))
	copy(expanded, keywords)
	for _, kw := range keywords {
		if syns, ok := lang.Synonyms[kw]; ok {
			expanded = append(expanded, syns...)
		}
	}
	return expanded
}

// SearchKeywords returns the min(k, len(chunks)) highest-scoring chunks for
// the query. Deterministic: ties keep document order, and when no keyword
// matches anything the first k chunks are returned in document order.
func SearchKeywords(query string, chunks []document.Chunk, k int, lang Language) []document.Chunk {
	if k <= 0 || len(chunks) == 0 {
		return nil
	}
	if k > len(chunks) {
		k = len(chunks)
	}

	keywords := Keywords(query, lang)
	if len(keywords) == 0 {
		return append([]document.Chunk(nil), chunks[:k]...)
	}
	expanded := expand(keywords, lang)

	type scored struct {
		score float64
		chunk document.Chunk
	}
	results := make([]scored, 0, len(chunks))
	anyMatch := false

	for _, chunk := range chunks {
		text := strings.ToLower(chunk.Content)
		var score float64

		for _, kw := range expanded {
			kwLen := utf8.RuneCountInString(kw)
			count := strings.Count(text, kw)
			if count > 0 {
				anyMatch = true
			}
			score += float64(count * kwLen * frequencyWeight)

			head := text
			if len(head) > earlyMentionWindow {
				head = head[:earlyMentionWindow]
			}
			if strings.Contains(head, kw) {
				score += float64(kwLen * earlyMentionWeight)
			}
		}

		distinct := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				distinct++
			}
		}
		score += float64(distinct * diversityBonus)

		if chapterIndicator.MatchString(text) {
			score += structuralBonus
		}

		score += float64(len(chunk.Content)) * lengthBonusPerChar

		results = append(results, scored{score: score, chunk: chunk})
	}

	// No keyword matched anywhere: degrade to the first k chunks in
	// document order rather than ranking on structural/length noise.
	if !anyMatch {
		return append([]document.Chunk(nil), chunks[:k]...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	top := make([]document.Chunk, 0, k)
	for _, r := range results[:k] {
		top = append(top, r.chunk)
	}
	return top
}
