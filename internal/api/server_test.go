package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docchat/internal/config"
	"docchat/internal/llm"
	"docchat/internal/retrieve"
	"docchat/internal/session"
)

const testAPIKey = "secret-key"

func testConfig() config.Config {
	return config.Config{
		APIKey:                 testAPIKey,
		LLMModel:               "test-model",
		MaxUploadBytes:         1 << 20,
		DefaultChunkSize:       400,
		DefaultChunkOverlap:    40,
		DefaultKChunks:         3,
		MinKChunks:             2,
		MaxKChunks:             5,
		SmallDocumentThreshold: 100,
	}
}

// newTestServer wires a full server against a stubbed chat endpoint that
// always answers with a fixed string.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	chatStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"resposta do modelo"}}]}`))
	}))
	t.Cleanup(chatStub.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats := llm.NewStats(time.Hour)
	chat := llm.NewClient("k", chatStub.URL, "test-model", stats)
	t.Cleanup(chat.Close)

	sessions := session.NewStore(time.Hour)
	retriever := retrieve.New(retrieve.DefaultLanguage(), log)

	return NewServer(sessions, retriever, chat, stats, log, testConfig())
}

func authedRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func doJSON(t *testing.T, srv *Server, req *http.Request, wantStatus int) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: status %d, want %d (body %s)", req.Method, req.URL.Path, rec.Code, wantStatus, rec.Body.String())
	}
	var out map[string]any
	if rec.Body.Len() > 0 && strings.Contains(rec.Header().Get("Content-Type"), "json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
		}
	}
	return out
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	out := doJSON(t, srv, authedRequest(http.MethodPost, "/api/sessions", nil), http.StatusCreated)
	id, _ := out["session_id"].(string)
	if id == "" {
		t.Fatal("expected session_id in response")
	}
	return id
}

func uploadText(t *testing.T, srv *Server, sessionID, filename, content string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := authedRequest(http.MethodPost, "/api/sessions/"+sessionID+"/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return doJSON(t, srv, req, http.StatusCreated)
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status %d, want 200", rec.Code)
	}
}

func TestAuthRejected(t *testing.T) {
	srv := newTestServer(t)

	// No header.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing auth: status %d, want 401", rec.Code)
	}

	// Wrong key.
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad key: status %d, want 401", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	out := doJSON(t, srv, authedRequest(http.MethodGet, "/api/sessions/"+id, nil), http.StatusOK)
	if out["session_id"] != id {
		t.Errorf("summary session_id = %v, want %s", out["session_id"], id)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status %d, want 204", rec.Code)
	}

	doJSON(t, srv, authedRequest(http.MethodGet, "/api/sessions/"+id, nil), http.StatusNotFound)
}

func TestUploadDocument(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	out := uploadText(t, srv, id, "livro.txt", "Capítulo 1 - Introdução\n\nTexto do primeiro capítulo.\n")
	if out["chunks"].(float64) < 1 {
		t.Error("expected at least one chunk")
	}
	if out["chapters"].(float64) != 1 {
		t.Errorf("expected 1 chapter, got %v", out["chapters"])
	}
}

func TestUploadUnsupportedType(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "binario.exe")
	fw.Write([]byte("MZ"))
	mw.Close()

	req := authedRequest(http.MethodPost, "/api/sessions/"+id+"/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	doJSON(t, srv, req, http.StatusBadRequest)
}

func TestStructureAndMapEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	// Before a document is loaded both endpoints refuse.
	doJSON(t, srv, authedRequest(http.MethodGet, "/api/sessions/"+id+"/structure", nil), http.StatusConflict)

	uploadText(t, srv, id, "livro.txt", "Capítulo 1 - Introdução\n\nTexto.\n\nCapítulo 2 - Fim\n\nMais texto.\n")

	out := doJSON(t, srv, authedRequest(http.MethodGet, "/api/sessions/"+id+"/structure", nil), http.StatusOK)
	chapters, _ := out["chapters"].([]any)
	if len(chapters) != 2 {
		t.Errorf("expected 2 chapters, got %v", out["chapters"])
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/sessions/"+id+"/map", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("map status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MAPA DO DOCUMENTO") {
		t.Errorf("map body missing header: %q", rec.Body.String())
	}
}

func TestAskSmallDocument(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	uploadText(t, srv, id, "nota.txt", "Texto curto sobre juros.")

	body := strings.NewReader(`{"question":"qual o tema?"}`)
	req := authedRequest(http.MethodPost, "/api/sessions/"+id+"/ask", body)
	req.Header.Set("Content-Type", "application/json")

	out := doJSON(t, srv, req, http.StatusOK)
	if out["answer"] != "resposta do modelo" {
		t.Errorf("answer = %v", out["answer"])
	}
	if out["kind"] != "full_document" {
		t.Errorf("kind = %v, want full_document", out["kind"])
	}
}

func TestAskLargeDocumentUsesRetrieval(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	// Well past the 100-char threshold in the test config.
	var sb strings.Builder
	sb.WriteString("Capítulo 1 - Juros\n\n")
	for i := 0; i < 30; i++ {
		sb.WriteString("A taxa de juros do contrato aparece neste parágrafo. ")
	}
	uploadText(t, srv, id, "contrato.txt", sb.String())

	body := strings.NewReader(`{"question":"qual a taxa de juros?","k":2}`)
	req := authedRequest(http.MethodPost, "/api/sessions/"+id+"/ask", body)
	req.Header.Set("Content-Type", "application/json")

	out := doJSON(t, srv, req, http.StatusOK)
	if out["kind"] != "content" {
		t.Errorf("kind = %v, want content", out["kind"])
	}
	used, _ := out["chunks_used"].([]any)
	if len(used) == 0 {
		t.Error("expected retrieved chunk indexes in response")
	}
}

func TestAskValidation(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	// No document yet.
	req := authedRequest(http.MethodPost, "/api/sessions/"+id+"/ask", strings.NewReader(`{"question":"oi"}`))
	doJSON(t, srv, req, http.StatusConflict)

	uploadText(t, srv, id, "nota.txt", "Texto curto.")

	// Blank question.
	req = authedRequest(http.MethodPost, "/api/sessions/"+id+"/ask", strings.NewReader(`{"question":"  "}`))
	doJSON(t, srv, req, http.StatusBadRequest)
}

func TestLLMStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	out := doJSON(t, srv, authedRequest(http.MethodGet, "/api/stats/llm", nil), http.StatusOK)
	if out["model"] != "test-model" {
		t.Errorf("model = %v, want test-model", out["model"])
	}
}
