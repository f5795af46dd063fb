// Package session holds per-conversation document state. Each session owns
// at most one loaded document at a time; loading a new one replaces the
// previous text, chunks, and structural index in a single step.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"docchat/internal/document"
	"docchat/internal/retrieve"
	"docchat/internal/splitter"
	"docchat/internal/structure"
)

// Session is the unit of isolation: one document, one conversation.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time

	text      string
	chunks    []document.Chunk
	structure document.Structure
	docMap    string
	pages     int
	source    string
	docHash   string
	loadedAt  time.Time
	touchedAt time.Time
}

// Summary is a JSON-safe description of a session's loaded document.
type Summary struct {
	ID       string    `json:"session_id"`
	Source   string    `json:"source,omitempty"`
	DocHash  string    `json:"doc_hash,omitempty"`
	Chars    int       `json:"chars"`
	Chunks   int       `json:"chunks"`
	Pages    int       `json:"pages"`
	Chapters int       `json:"chapters"`
	TOCFound bool      `json:"toc_found"`
	LoadedAt time.Time `json:"loaded_at,omitzero"`
}

// LoadDocument replaces the session's document with the given text. The
// chunks, structural index, and document map are all rebuilt from the new
// text, so stale state from a previous document never survives a reload.
func (s *Session) LoadDocument(text, source string, cfg splitter.Config) (Summary, error) {
	chunks, err := splitter.BuildChunks(text, source, cfg)
	if err != nil {
		return Summary{}, fmt.Errorf("split document: %w", err)
	}

	st := structure.Analyze(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.chunks = chunks
	s.structure = st
	s.docMap = structure.BuildMap(text, st)
	s.pages = document.CountPages(text, source)
	s.source = source
	s.docHash = document.HashText(text)
	s.loadedAt = time.Now()
	s.touchedAt = s.loadedAt

	return s.summaryLocked(), nil
}

// Document returns the retrieval view of the loaded document. The view
// shares the underlying text and chunk slice; callers must not mutate it.
func (s *Session) Document() retrieve.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return retrieve.Document{
		Text:      s.text,
		Chunks:    s.chunks,
		Structure: s.structure,
		Map:       s.docMap,
		Pages:     s.pages,
	}
}

// HasDocument reports whether a document has been loaded.
func (s *Session) HasDocument() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text != ""
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Session) summaryLocked() Summary {
	return Summary{
		ID:       s.ID,
		Source:   s.source,
		DocHash:  s.docHash,
		Chars:    len(s.text),
		Chunks:   len(s.chunks),
		Pages:    s.pages,
		Chapters: len(s.structure.Chapters),
		TOCFound: len(s.structure.TOCs) > 0,
		LoadedAt: s.loadedAt,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.touchedAt)
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new empty session and returns it.
func (st *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:        newID(),
		CreatedAt: now,
		touchedAt: now,
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.ID] = sess
	return sess
}

// Get returns the session for id, or nil. A hit resets the idle clock.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	sess := st.sessions[id]
	st.mu.Unlock()
	if sess != nil {
		sess.touch()
	}
	return sess
}

// Delete removes a session. Removing an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup evicts sessions idle longer than the TTL.
func (st *Store) Cleanup() {
	now := time.Now()
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, sess := range st.sessions {
		if sess.idleSince(now) > st.ttl {
			delete(st.sessions, id)
		}
	}
}

// CleanupLoop runs Cleanup on a ticker until the context is cancelled.
func (st *Store) CleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Cleanup()
		}
	}
}
