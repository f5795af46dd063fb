package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"docchat/internal/document"
	"docchat/internal/llm"
)

type askRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

type askResponse struct {
	Answer     string `json:"answer"`
	Kind       string `json:"kind"`
	ChunksUsed []int  `json:"chunks_used"`
	K          int    `json:"k"`
}

const previewChars = 2000

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !sess.HasDocument() {
		jsonError(w, "no document loaded", http.StatusConflict)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}
	k := s.cfg.ClampK(req.K)

	doc := sess.Document()
	summary := sess.Summary()
	info := llm.DocumentInfo{
		Source: summary.Source,
		Pages:  summary.Pages,
		Chars:  summary.Chars,
		Chunks: summary.Chunks,
	}

	// Small documents skip retrieval and ride along in the system prompt.
	if summary.Chars <= s.cfg.SmallDocumentThreshold {
		system := llm.SmallDocumentPrompt(info, doc.Text)
		answer, err := s.chat.AnswerWithRetry(r.Context(), system, req.Question)
		if err != nil {
			s.answerError(w, sess.ID, err)
			return
		}
		writeAnswer(w, askResponse{Answer: answer, Kind: "full_document", K: k})
		return
	}

	result := s.retriever.Retrieve(req.Question, doc, k)
	if len(result.Chunks) == 0 && result.ExtraContext == "" {
		writeAnswer(w, askResponse{
			Answer:     "Não consegui encontrar informações relevantes no documento para responder sua pergunta.",
			Kind:       result.Kind.String(),
			ChunksUsed: []int{},
			K:          k,
		})
		return
	}

	system := llm.LargeDocumentPrompt(info, document.Preview(doc.Text, previewChars))
	user := llm.QuestionPrompt(req.Question, result.Chunks, result.ExtraContext)

	answer, err := s.chat.AnswerWithRetry(r.Context(), system, user)
	if err != nil {
		s.answerError(w, sess.ID, err)
		return
	}

	used := make([]int, 0, len(result.Chunks))
	for _, c := range result.Chunks {
		if c.Index >= 0 {
			used = append(used, c.Index)
		}
	}
	writeAnswer(w, askResponse{
		Answer:     answer,
		Kind:       result.Kind.String(),
		ChunksUsed: used,
		K:          k,
	})
}

func (s *Server) answerError(w http.ResponseWriter, sessionID string, err error) {
	s.log.Error("answer failed", "session_id", sessionID, "error", err)
	if llm.IsRetryable(err) {
		jsonError(w, "model temporarily unavailable, try again", http.StatusServiceUnavailable)
		return
	}
	jsonError(w, "failed to answer question", http.StatusBadGateway)
}

func writeAnswer(w http.ResponseWriter, resp askResponse) {
	if resp.ChunksUsed == nil {
		resp.ChunksUsed = []int{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
