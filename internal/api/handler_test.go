package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/disputelens/credit-analyzer/internal/report"
	"github.com/disputelens/credit-analyzer/internal/store"
)

func newTestApp(t *testing.T, s *store.Store) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := &Handler{
		Logger:   zap.NewNop(),
		Analyzer: report.NewAnalyzer(),
		Store:    s,
	}
	h.RegisterRoutes(app)
	return app
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleHealth(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want ok", body["status"])
	}
	if body["engine"] != "fiber" {
		t.Errorf("engine field: got %q, want fiber", body["engine"])
	}
}

func TestHandleAnalyze_Text(t *testing.T) {
	app := newTestApp(t, nil)

	form := url.Values{}
	form.Set("text", "Experian Credit Report\nCAPITAL ONE\nAccount Number: 517805XXXXXX\nStatus: Late\nBalance: $1,847")
	form.Set("round", "2")

	resp, err := app.Test(formRequest("/api/analyze", form))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status: got %d, body: %s", resp.StatusCode, raw)
	}

	var body AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success, got error %q", body.Error)
	}
	if body.RunID == "" {
		t.Error("expected a run id")
	}
	if body.Bureau != "experian" {
		t.Errorf("bureau: got %q, want experian", body.Bureau)
	}
	if body.Round != 2 {
		t.Errorf("round: got %d, want 2", body.Round)
	}
	if len(body.Accounts) != 1 {
		t.Fatalf("accounts: got %d, want 1", len(body.Accounts))
	}
	if body.Accounts[0].AccountNumber != "XX7805" {
		t.Errorf("account number: got %q, want XX7805", body.Accounts[0].AccountNumber)
	}
	if body.RawText != "" {
		t.Error("raw text should be omitted without debug=true")
	}
}

func TestHandleAnalyze_DebugIncludesTraces(t *testing.T) {
	app := newTestApp(t, nil)

	form := url.Values{}
	form.Set("text", "CAPITAL ONE\nStatus: Late")
	form.Set("debug", "true")

	resp, err := app.Test(formRequest("/api/analyze", form))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Traces) == 0 {
		t.Error("expected segmentation traces with debug=true")
	}
	if body.RawText == "" {
		t.Error("expected raw text with debug=true")
	}
}

func TestHandleAnalyze_MissingContent(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(formRequest("/api/analyze", url.Values{}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		t.Fatal("expected a failure status for empty request")
	}

	var body AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Error == "" {
		t.Error("expected an error message")
	}
}

func TestHandleAnalyze_PersistsAndFetches(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	app := newTestApp(t, s)

	form := url.Values{}
	form.Set("text", "CHASE\nAccount Number: 426684XXXXXX\nStatus: Collection")

	resp, err := app.Test(formRequest("/api/analyze", form))
	if err != nil {
		t.Fatalf("analyze request failed: %v", err)
	}
	var analyzed AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzed); err != nil {
		t.Fatalf("decoding analyze body: %v", err)
	}
	resp.Body.Close()
	if analyzed.RunID == "" {
		t.Fatal("expected a run id")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/analyses/"+analyzed.RunID, nil))
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var fetched struct {
		Success bool               `json:"success"`
		Run     *store.AnalysisRun `json:"run"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decoding get body: %v", err)
	}
	if fetched.Run == nil || fetched.Run.ID != analyzed.RunID {
		t.Errorf("fetched run: got %+v, want id %s", fetched.Run, analyzed.RunID)
	}
	if len(fetched.Run.Negative) != 1 {
		t.Errorf("negative accounts: got %d, want 1", len(fetched.Run.Negative))
	}
}

func TestHandleGetRun_NotFound(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	app := newTestApp(t, s)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/analyses/nope", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHandleListRuns_StoreDisabled(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/analyses", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusNotImplemented)
	}
}
