package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"docchat/internal/parser"
	"docchat/internal/splitter"
)

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	// Limit total request size. Extra 1MB covers form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	// Optional chunk config overrides.
	chunkCfg := splitter.Config{
		ChunkSize:    s.cfg.DefaultChunkSize,
		ChunkOverlap: s.cfg.DefaultChunkOverlap,
	}
	if v := r.FormValue("chunk_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			chunkCfg.ChunkSize = n
		}
	}
	if v := r.FormValue("overlap"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			chunkCfg.ChunkOverlap = n
		}
	}

	p, err := parser.ForFile(filename, s.cfg.PDFFallbackPdftotext)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	text, err := p.Parse(file, filename)
	if err != nil {
		s.log.Error("parse failed", "session_id", sess.ID, "filename", filename, "error", err)
		jsonError(w, "failed to parse document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if strings.TrimSpace(text) == "" {
		jsonError(w, "document has no extractable text", http.StatusUnprocessableEntity)
		return
	}

	summary, err := sess.LoadDocument(text, filename, chunkCfg)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.log.Info("document loaded",
		"session_id", sess.ID,
		"filename", filename,
		"chars", summary.Chars,
		"chunks", summary.Chunks,
		"pages", summary.Pages,
		"chapters", summary.Chapters,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(summary)
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !sess.HasDocument() {
		jsonError(w, "no document loaded", http.StatusConflict)
		return
	}

	doc := sess.Document()

	chapters := make([]map[string]any, 0, len(doc.Structure.Chapters))
	for _, ch := range doc.Structure.Chapters {
		chapters = append(chapters, map[string]any{
			"number": ch.Number,
			"title":  ch.Title,
			"line":   ch.Line,
		})
	}
	pages := make([]int, 0, len(doc.Structure.Pages))
	for _, pg := range doc.Structure.Pages {
		pages = append(pages, pg.Number)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"chapters":  chapters,
		"pages":     pages,
		"toc_found": len(doc.Structure.TOCs) > 0,
	})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !sess.HasDocument() {
		jsonError(w, "no document loaded", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, sess.Document().Map)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
