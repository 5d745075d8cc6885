// Package server mounts the board HTTP API and MCP tools on one listener.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/weekplan/internal/adapters/server/common"
	"github.com/hylla/weekplan/internal/adapters/server/httpapi"
	"github.com/hylla/weekplan/internal/adapters/server/mcpapi"
)

// Serve defaults. The bind address is loopback so the board is never exposed by accident.
const (
	defaultBindAddress = "127.0.0.1:5437"
	defaultAPIEndpoint = "/api/v1"
	defaultMCPEndpoint = "/mcp"
	defaultServerName  = "weekplan"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// reservedPaths are mounted by the server itself.
var reservedPaths = []string{"/healthz", "/readyz"}

// Config defines serve-mode endpoint configuration.
type Config struct {
	HTTPBind      string
	APIEndpoint   string
	MCPEndpoint   string
	ServerName    string
	ServerVersion string
}

// Dependencies are the collaborators shared by both transports.
type Dependencies struct {
	Board  common.BoardService
	Logger *charmLog.Logger
}

// NewHandler builds the root mux and returns the normalized config it was built from.
func NewHandler(cfg Config, deps Dependencies) (http.Handler, Config, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, Config{}, err
	}
	if deps.Board == nil {
		return nil, Config{}, errors.New("board dependency is required")
	}

	tools, err := mcpapi.NewHandler(mcpapi.Config{
		ServerName:    cfg.ServerName,
		ServerVersion: cfg.ServerVersion,
		EndpointPath:  cfg.MCPEndpoint,
	}, deps.Board)
	if err != nil {
		return nil, Config{}, fmt.Errorf("configure mcp handler: %w", err)
	}
	api := http.StripPrefix(cfg.APIEndpoint, httpapi.NewHandler(deps.Board))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	mux.HandleFunc("/readyz", readiness(deps.Board))
	mux.Handle(cfg.MCPEndpoint, tools)
	mux.Handle(cfg.APIEndpoint, api)
	mux.Handle(cfg.APIEndpoint+"/", api)
	return logRequests(loggerOrDiscard(deps.Logger), mux), cfg, nil
}

// Run listens on cfg.HTTPBind and serves until ctx is canceled.
func Run(ctx context.Context, cfg Config, deps Dependencies) error {
	if ctx == nil {
		ctx = context.Background()
	}
	handler, cfg, err := NewHandler(cfg, deps)
	if err != nil {
		return fmt.Errorf("build server handler: %w", err)
	}
	logger := loggerOrDiscard(deps.Logger)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", cfg.HTTPBind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPBind, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	logger.Info("serving", "addr", listener.Addr().String(), "api", cfg.APIEndpoint, "mcp", cfg.MCPEndpoint)

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(listener)
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", listener.Addr().String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := <-served; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve after shutdown: %w", err)
	}
	return nil
}

// readiness reports ready once the board answers a state read.
func readiness(board common.BoardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := board.State(r.Context())
		if err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"session_id": state.SessionID,
			"version":    state.Board.Version,
		})
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Flush keeps streamable MCP responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// logRequests writes one debug line per request.
func logRequests(logger *charmLog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}

func loggerOrDiscard(logger *charmLog.Logger) *charmLog.Logger {
	if logger == nil {
		return charmLog.New(io.Discard)
	}
	return logger
}

// normalizeConfig fills defaults and rejects endpoints that would shadow each other.
func normalizeConfig(cfg Config) (Config, error) {
	cfg.HTTPBind = strings.TrimSpace(cfg.HTTPBind)
	if cfg.HTTPBind == "" {
		cfg.HTTPBind = defaultBindAddress
	}
	cfg.APIEndpoint = normalizeEndpoint(cfg.APIEndpoint, defaultAPIEndpoint)
	cfg.MCPEndpoint = normalizeEndpoint(cfg.MCPEndpoint, defaultMCPEndpoint)
	if overlaps(cfg.APIEndpoint, cfg.MCPEndpoint) {
		return Config{}, fmt.Errorf("api endpoint %q and mcp endpoint %q overlap", cfg.APIEndpoint, cfg.MCPEndpoint)
	}
	for _, reserved := range reservedPaths {
		if overlaps(cfg.APIEndpoint, reserved) || overlaps(cfg.MCPEndpoint, reserved) {
			return Config{}, fmt.Errorf("endpoint collides with %s", reserved)
		}
	}

	if cfg.ServerName = strings.TrimSpace(cfg.ServerName); cfg.ServerName == "" {
		cfg.ServerName = defaultServerName
	}
	if cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion); cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	return cfg, nil
}

// normalizeEndpoint returns "/a/b" for " a/b/ ", or fallback for an empty or root path.
func normalizeEndpoint(path, fallback string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return fallback
	}
	return "/" + trimmed
}

// overlaps reports whether one endpoint equals or nests under the other.
func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}
