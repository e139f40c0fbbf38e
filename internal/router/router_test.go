package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BerylCAtieno/document-summary-assistant/internal/db"
	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/repository"
	"github.com/BerylCAtieno/document-summary-assistant/internal/services"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

const summaryText = "# Summary\n\nDoc is about X."

type fixedSummarizer struct{}

func (fixedSummarizer) GenerateSummary(context.Context, *models.Document, models.SummaryLength) (string, error) {
	return summaryText, nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	path := filepath.Join(t.TempDir(), "summaries.db")
	if err := db.RunMigrations(path); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	database, err := db.NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("NewSQLiteDB: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logger := utils.NewNopLogger()
	svc := services.NewService(repository.NewRepository(database), fixedSummarizer{}, nil, models.DefaultTypePolicy(), logger)

	return NewRouter(svc, logger, 1<<20)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(newTestHandler(t))
	t.Cleanup(srv.Close)
	return srv
}

func multipartBody(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write(data)

	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, method, url, contentType string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "healthy" {
		t.Fatalf("body = %v", body)
	}
}

func TestPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/sessions/abc/generate", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost) {
		t.Fatalf("allow methods = %q", resp.Header.Get("Access-Control-Allow-Methods"))
	}
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	resp := do(t, http.MethodPost, base+"/sessions", "", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var snap models.Snapshot
	decode(t, resp, &snap)
	if snap.ID == "" || snap.State != models.StateIdle || snap.Length != models.LengthMedium {
		t.Fatalf("unexpected new session %+v", snap)
	}
	sessionURL := base + "/sessions/" + snap.ID

	// Generating without a document is rejected
	resp = do(t, http.MethodPost, sessionURL+"/generate", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("generate without file status = %d", resp.StatusCode)
	}
	var errBody map[string]string
	decode(t, resp, &errBody)
	if errBody["error"] != "Please upload a file first." {
		t.Fatalf("error = %q", errBody["error"])
	}

	body, ct := multipartBody(t, "paper.pdf", "", []byte("%PDF-1.4 not much of a pdf"), nil)
	resp = do(t, http.MethodPut, sessionURL+"/document", ct, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d", resp.StatusCode)
	}
	decode(t, resp, &snap)
	if snap.Document == nil || snap.Document.MIMEType != "application/pdf" {
		t.Fatalf("document = %+v", snap.Document)
	}

	resp = do(t, http.MethodPut, sessionURL+"/length", "application/json", strings.NewReader(`{"length":"short"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("length status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, sessionURL+"/generate", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	decode(t, resp, &snap)
	if snap.State != models.StateSucceeded || snap.Summary != summaryText || snap.Length != models.LengthShort {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	resp = do(t, http.MethodGet, sessionURL+"/summary", "", nil)
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(raw) != summaryText {
		t.Fatalf("summary = %d %q", resp.StatusCode, raw)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/markdown") {
		t.Fatalf("content type = %q", resp.Header.Get("Content-Type"))
	}

	resp = do(t, http.MethodGet, sessionURL+"/history", "", nil)
	var history struct {
		Summaries []models.SummaryRecord `json:"summaries"`
		Count     int                    `json:"count"`
	}
	decode(t, resp, &history)
	if history.Count != 1 || history.Summaries[0].Status != models.StatusSucceeded {
		t.Fatalf("history = %+v", history)
	}

	resp = do(t, http.MethodDelete, sessionURL+"/document", "", nil)
	var cleared models.Snapshot
	decode(t, resp, &cleared)
	if cleared.State != models.StateIdle || cleared.Summary != "" || cleared.Document != nil {
		t.Fatalf("after clear %+v", cleared)
	}

	resp = do(t, http.MethodDelete, sessionURL, "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, sessionURL, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted session status = %d", resp.StatusCode)
	}
}

func TestSessionRejectsUnsupportedType(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	resp := do(t, http.MethodPost, base+"/sessions", "", nil)
	var snap models.Snapshot
	decode(t, resp, &snap)

	body, ct := multipartBody(t, "notes.txt", "text/plain", []byte("hello"), nil)
	resp = do(t, http.MethodPut, base+"/sessions/"+snap.ID+"/document", ct, body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var errBody map[string]string
	decode(t, resp, &errBody)
	if !strings.HasPrefix(errBody["error"], "Invalid file type.") {
		t.Fatalf("error = %q", errBody["error"])
	}
}

func TestOneShotSummary(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1"

	body, ct := multipartBody(t, "scan.png", "image/png", []byte("\x89PNG\r\n\x1a\nfake"), map[string]string{"length": "long"})
	resp := do(t, http.MethodPost, base+"/summaries", ct, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summarize status = %d", resp.StatusCode)
	}
	var out models.SummaryResponse
	decode(t, resp, &out)
	if out.ID == "" || out.Summary != summaryText || out.Length != models.LengthLong {
		t.Fatalf("unexpected response %+v", out)
	}

	resp = do(t, http.MethodGet, base+"/summaries/"+out.ID, "", nil)
	var rec models.SummaryRecord
	decode(t, resp, &rec)
	if rec.Filename != "scan.png" || rec.ContentType != "image/png" || rec.SessionID != nil {
		t.Fatalf("unexpected record %+v", rec)
	}

	resp = do(t, http.MethodGet, base+"/summaries?limit=5", "", nil)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, resp, &list)
	if list.Count != 1 {
		t.Fatalf("count = %d", list.Count)
	}

	resp = do(t, http.MethodGet, base+"/summaries?limit=zero", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d", resp.StatusCode)
	}

	// Archiving is disabled
	resp = do(t, http.MethodGet, base+"/summaries/"+out.ID+"/document", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("document status = %d", resp.StatusCode)
	}
}

func TestUploadTooLarge(t *testing.T) {
	handler := newTestHandler(t)

	body, ct := multipartBody(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2<<20), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "File size exceeds 1MB limit") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}
