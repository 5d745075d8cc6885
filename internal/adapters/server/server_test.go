package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/weekplan/internal/adapters/server/common"
	"github.com/hylla/weekplan/internal/app"
	"github.com/hylla/weekplan/internal/domain"
)

func newTestBoard(t *testing.T) common.BoardService {
	t.Helper()
	store, err := app.NewStore(nil, []app.Placement{
		{Day: "Monday", Task: domain.Task{ID: 1, Title: "T1", Points: 2}},
	}, app.WithSessionID("serve-test"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return common.NewSerializedBoard(store, nil)
}

// failingBoard answers every call with err.
type failingBoard struct {
	err error
}

func (f failingBoard) State(context.Context) (common.BoardState, error) {
	return common.BoardState{}, f.err
}

func (f failingBoard) Apply(context.Context, common.OperationRequest) (common.OperationResult, error) {
	return common.OperationResult{}, f.err
}

func (f failingBoard) Activity(context.Context, int) ([]domain.ChangeEvent, error) {
	return nil, f.err
}

func TestNormalizeConfigDefaults(t *testing.T) {
	cfg, err := normalizeConfig(Config{APIEndpoint: "api/v2/", MCPEndpoint: " "})
	if err != nil {
		t.Fatalf("normalizeConfig() error = %v", err)
	}
	if cfg.HTTPBind != defaultBindAddress {
		t.Fatalf("bind = %q, want %q", cfg.HTTPBind, defaultBindAddress)
	}
	if cfg.APIEndpoint != "/api/v2" || cfg.MCPEndpoint != defaultMCPEndpoint {
		t.Fatalf("endpoints = %q %q", cfg.APIEndpoint, cfg.MCPEndpoint)
	}
	if cfg.ServerName != "weekplan" || cfg.ServerVersion != "dev" {
		t.Fatalf("server identity = %q %q", cfg.ServerName, cfg.ServerVersion)
	}
}

func TestNormalizeConfigRejectsOverlappingEndpoints(t *testing.T) {
	cases := []Config{
		{APIEndpoint: "/x", MCPEndpoint: "x/"},
		{APIEndpoint: "/api", MCPEndpoint: "/api/mcp"},
		{APIEndpoint: "/healthz"},
		{MCPEndpoint: "/readyz/mcp"},
	}
	for _, tc := range cases {
		if _, err := normalizeConfig(tc); err == nil {
			t.Fatalf("normalizeConfig(%#v) error = nil, want overlap", tc)
		}
	}
	if _, err := normalizeConfig(Config{APIEndpoint: "/api", MCPEndpoint: "/apimcp"}); err != nil {
		t.Fatalf("normalizeConfig() error = %v, want sibling prefixes allowed", err)
	}
}

func TestNewHandlerRequiresBoard(t *testing.T) {
	if _, _, err := NewHandler(Config{}, Dependencies{}); err == nil {
		t.Fatal("NewHandler() error = nil, want board required")
	}
}

func TestNewHandlerRoutes(t *testing.T) {
	var logs bytes.Buffer
	logger := charmLog.NewWithOptions(&logs, charmLog.Options{Level: charmLog.DebugLevel})
	handler, cfg, err := NewHandler(Config{}, Dependencies{Board: newTestBoard(t), Logger: logger})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz: status = %d body = %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	var ready map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&ready); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if rec.Code != http.StatusOK || ready["session_id"] != "serve-test" {
		t.Fatalf("readyz: status = %d body = %#v", rec.Code, ready)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, cfg.APIEndpoint+"/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("state status = %d body = %s", rec.Code, rec.Body.String())
	}
	var state common.BoardState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if monday, ok := state.Board.Day("Monday"); !ok || monday.Points != 2 {
		t.Fatalf("monday = %#v, want 2 points", monday)
	}

	if !strings.Contains(logs.String(), "http request") || !strings.Contains(logs.String(), "/api/v1/state") {
		t.Fatalf("expected request log lines, got %q", logs.String())
	}
}

func TestReadinessReportsBoardFailure(t *testing.T) {
	handler, _, err := NewHandler(Config{}, Dependencies{Board: failingBoard{err: common.ErrNotConfigured}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), common.ErrNotConfigured.Error()) {
		t.Fatalf("readyz body = %q", rec.Body.String())
	}
}

func TestRunRejectsBadBind(t *testing.T) {
	err := Run(context.Background(), Config{HTTPBind: "256.0.0.1:bad"}, Dependencies{Board: newTestBoard(t)})
	if err == nil || !strings.Contains(err.Error(), "listen on") {
		t.Fatalf("Run() error = %v, want listen error", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	board := newTestBoard(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{HTTPBind: "127.0.0.1:0"}, Dependencies{Board: board})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
