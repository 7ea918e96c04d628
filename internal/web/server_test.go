package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/mobgen/internal/config"
	"github.com/JonMunkholm/mobgen/internal/core"
	_ "github.com/JonMunkholm/mobgen/internal/core/generators"
	"github.com/JonMunkholm/mobgen/internal/sheet"
	"github.com/stretchr/testify/require"
)

const mobSheet = "ID,Name,Level,MaxHP,Category1,Category2,Category3,NameColor\n" +
	"goblin,ゴブリン,5,50,Global,Ground,Blow,green\n" +
	",nobody,1,,,,,\n"

type stubFetcher struct {
	text string
	err  error
}

func (f stubFetcher) Fetch(context.Context, string) (string, error) {
	return f.text, f.err
}

func newTestServer(t *testing.T, f core.Fetcher) (*Server, config.Config) {
	t.Helper()
	cfg := config.Config{
		Sheet: config.SheetConfig{
			SpreadsheetID:  "sheet123",
			MobGID:         "0",
			ItemGID:        "42",
			BaseURL:        "https://example.test/d",
			HeaderScanRows: 5,
		},
		Output: config.OutputConfig{DatapackDir: t.TempDir(), SpawnFunctions: true},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
	}
	return NewServer(core.NewService(f, cfg), cfg.Server), cfg
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{})
	rec := get(t, s, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestListGenerators(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{})
	rec := get(t, s, "/api/generators")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []GeneratorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "item", got[0].Key)
	require.Equal(t, "https://example.test/d/sheet123/export?format=csv&gid=42", got[0].URL)
	require.Equal(t, "mob", got[1].Key)
}

func TestPlan(t *testing.T) {
	s, cfg := newTestServer(t, stubFetcher{text: mobSheet})
	rec := get(t, s, "/api/mob/plan")
	require.Equal(t, http.StatusOK, rec.Code)

	var plan struct {
		Generator string `json:"generator"`
		Entries   []struct {
			ID    string `json:"id"`
			Files []struct {
				Path string `json:"path"`
			} `json:"files"`
		} `json:"entries"`
		Skipped []core.RowIssue `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Equal(t, "mob", plan.Generator)
	require.Len(t, plan.Entries, 1)
	require.Equal(t, "goblin", plan.Entries[0].ID)
	require.Len(t, plan.Entries[0].Files, 3)
	require.Equal(t, "data/bank/function/mob/global/ground/blow/goblin.mcfunction", plan.Entries[0].Files[0].Path)
	require.Len(t, plan.Skipped, 1)
	require.Equal(t, 3, plan.Skipped[0].Line)

	entries, _ := os.ReadDir(cfg.Output.DatapackDir)
	require.Empty(t, entries, "preview must not write")
}

func TestEntry(t *testing.T) {
	s, cfg := newTestServer(t, stubFetcher{text: mobSheet})
	rec := get(t, s, "/api/mob/entries/goblin")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "# --- data/bank/function/mob/global/ground/blow/goblin.mcfunction\n# ゴブリン 設定\n"))
	require.Contains(t, body, "\n# --- data/mob/function/spawn_map/goblin.mcfunction\n")
	require.Contains(t, body, "\n# --- data/mob/function/spawn/goblin.mcfunction\n")

	// the preview shows exactly what a run writes
	svc := core.NewService(stubFetcher{text: mobSheet}, cfg)
	_, err := svc.Generate(context.Background(), "mob", false)
	require.NoError(t, err)
	written, err := os.ReadFile(filepath.Join(cfg.Output.DatapackDir, "data", "bank", "function", "mob", "global", "ground", "blow", "goblin.mcfunction"))
	require.NoError(t, err)
	require.Contains(t, body, string(written))
}

func TestEntry_NotFound(t *testing.T) {
	s, _ := newTestServer(t, stubFetcher{text: mobSheet})
	rec := get(t, s, "/api/mob/entries/dragon")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "GEN002", resp.Code)
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		fetcher    stubFetcher
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown generator",
			path:       "/api/boss/plan",
			wantStatus: http.StatusNotFound,
			wantCode:   "GEN001",
		},
		{
			name:       "fetch failure",
			path:       "/api/mob/plan",
			fetcher:    stubFetcher{err: &sheet.FetchError{URL: "u", StatusCode: 404, Status: "404 Not Found"}},
			wantStatus: http.StatusBadGateway,
			wantCode:   "FETCH001",
		},
		{
			name:       "missing id column",
			path:       "/api/mob/entries/goblin",
			fetcher:    stubFetcher{text: "Name,Level\nx,1\n"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "PARSE002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.fetcher)
			rec := get(t, s, tt.path)
			require.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.wantCode, resp.Code)
			require.NotEmpty(t, resp.Message)
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: boss", core.ErrUnknownGenerator), http.StatusNotFound},
		{fmt.Errorf("fetch mob sheet: %w", core.ErrTooManyFetches), http.StatusServiceUnavailable},
		{&sheet.FetchError{URL: "u", Err: errors.New("timeout")}, http.StatusBadGateway},
		{&sheet.ParseError{Line: 2, Err: errors.New("bare quote")}, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
