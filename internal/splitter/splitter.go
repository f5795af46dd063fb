// Package splitter divides raw document text into overlapping, size-bounded
// segments along natural boundaries: paragraph first, then line, sentence,
// word, and finally plain character cuts.
package splitter

import (
	"fmt"
	"strings"

	"docchat/internal/document"
)

// Config controls splitting behavior.
type Config struct {
	ChunkSize    int // Maximum chunk size in characters.
	ChunkOverlap int // Tail of each chunk re-included at the head of the next.
}

// DefaultConfig returns the standard 4000/400 (10% overlap) configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    4000,
		ChunkOverlap: 400,
	}
}

// Validate reports configuration misuse. Invalid sizes are programmer error
// and fail fast; they are never silently coerced.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// separators in priority order. Splitting prefers the largest semantically
// coherent unit: paragraphs, then lines, sentences, clauses, words, and as a
// last resort hard character cuts (the empty separator).
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// Split divides text into ordered chunk strings. Concatenating the chunks
// with their overlap regions removed reconstructs the input exactly. Text
// within the size bound yields a single chunk; empty text yields none.
func Split(text string, cfg Config) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	if len(text) <= cfg.ChunkSize {
		return []string{text}, nil
	}

	pieces := splitRecursive(text, cfg.ChunkSize, separators)
	return mergeWithOverlap(pieces, cfg), nil
}

// BuildChunks splits text and wraps each piece with its retrieval metadata.
func BuildChunks(text, source string, cfg Config) ([]document.Chunk, error) {
	pieces, err := Split(text, cfg)
	if err != nil {
		return nil, err
	}

	hash := document.HashText(text)
	chunks := make([]document.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, document.Chunk{
			Content: piece,
			Index:   i,
			Metadata: document.Metadata{
				Source:     source,
				DocHash:    hash,
				ChunkIndex: i,
				ChunkCount: len(pieces),
			},
		})
	}
	return chunks, nil
}

// splitRecursive breaks text into pieces no larger than limit, trying each
// separator in priority order. Separators stay attached to the piece on
// their left so concatenating all pieces reproduces the input.
func splitRecursive(text string, limit int, seps []string) []string {
	if len(text) <= limit {
		return []string{text}
	}
	if len(seps) == 0 || seps[0] == "" {
		return hardCut(text, limit)
	}

	sep := seps[0]
	parts := strings.Split(text, sep)

	var pieces []string
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part == "" {
			continue
		}
		if len(part) > limit {
			pieces = append(pieces, splitRecursive(part, limit, seps[1:])...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// hardCut slices text every limit characters. Last resort for text with no
// usable separators.
func hardCut(text string, limit int) []string {
	var pieces []string
	for len(text) > limit {
		pieces = append(pieces, text[:limit])
		text = text[limit:]
	}
	if text != "" {
		pieces = append(pieces, text)
	}
	return pieces
}

// mergeWithOverlap packs pieces into chunks of at most ChunkSize characters
// of fresh content, carrying the tail of each emitted chunk into the head of
// the next. A carried tail is always exactly ChunkOverlap characters; chunks
// shorter than the overlap carry nothing.
func mergeWithOverlap(pieces []string, cfg Config) []string {
	var chunks []string
	var current strings.Builder
	carried := 0 // Length of the overlap prefix in current.

	flush := func() {
		chunk := current.String()
		if chunk == "" {
			return
		}
		chunks = append(chunks, chunk)
		current.Reset()
		carried = 0
		if cfg.ChunkOverlap > 0 && len(chunk) > cfg.ChunkOverlap {
			current.WriteString(chunk[len(chunk)-cfg.ChunkOverlap:])
			carried = cfg.ChunkOverlap
		}
	}

	for _, piece := range pieces {
		// Flush only when the chunk already holds fresh content beyond the
		// carried overlap; a lone overlap prefix must never be emitted as a
		// chunk of its own.
		if current.Len()+len(piece) > cfg.ChunkSize && current.Len() > carried {
			flush()
		}
		current.WriteString(piece)
	}
	if current.Len() > carried {
		chunks = append(chunks, current.String())
	}
	return chunks
}
