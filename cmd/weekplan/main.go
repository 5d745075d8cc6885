package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/hylla/weekplan/internal/adapters/server"
	"github.com/hylla/weekplan/internal/adapters/server/common"
	"github.com/hylla/weekplan/internal/adapters/storage/sqlite"
	"github.com/hylla/weekplan/internal/app"
	"github.com/hylla/weekplan/internal/config"
	"github.com/hylla/weekplan/internal/domain"
	"github.com/hylla/weekplan/internal/platform"
	"github.com/hylla/weekplan/internal/tui"
)

// version is stamped at build time.
var version = "dev"

// program is the part of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program; tests swap it for a fake.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP and MCP listeners.
var serveCommandRunner = func(ctx context.Context, cfg server.Config, deps server.Dependencies) error {
	return server.Run(ctx, cfg, deps)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
	ledgerMode string
}

// run builds the command tree and executes args against it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: platform.DefaultAppName, devMode: version == "dev"}
	if envApp := strings.TrimSpace(os.Getenv("WEEKPLAN_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}
	if envDev, ok := parseBoolEnv("WEEKPLAN_DEV_MODE"); ok {
		opts.devMode = envDev
	}

	root := &cobra.Command{
		Use:   "weekplan",
		Short: "Plan a week of tasks and collect billable ones in a folder",
		Long: "weekplan keeps tasks in seven day buckets plus a billing folder.\n" +
			"Running it without a command opens the board in the terminal.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML (env WEEKPLAN_CONFIG)")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev) and the dev log file")
	flags.StringVar(&opts.ledgerMode, "ledger", "", "activity ledger mode override: memory, file or off")

	root.AddCommand(
		newServeCommand(opts, stderr),
		newExportCommand(opts, stdout, stderr),
		newReplayCommand(opts, stdout, stderr),
		newPathsCommand(opts, stdout),
	)
	return root
}

func newServeCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var httpBind, apiEndpoint, mcpEndpoint string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openCommandEnv(opts, "serve", stderr)
			if err != nil {
				return err
			}
			defer env.Close()

			serverCfg := server.Config{
				HTTPBind:      firstNonEmpty(httpBind, env.cfg.Server.HTTPBind),
				APIEndpoint:   firstNonEmpty(apiEndpoint, env.cfg.Server.APIEndpoint),
				MCPEndpoint:   firstNonEmpty(mcpEndpoint, env.cfg.Server.MCPEndpoint),
				ServerName:    opts.appName,
				ServerVersion: version,
			}
			env.logger.Info("command flow start", "command", "serve", "http", serverCfg.HTTPBind)
			err = serveCommandRunner(cmd.Context(), serverCfg, server.Dependencies{
				Board:  common.NewSerializedBoard(env.store, env.activityReader()),
				Logger: env.logger.Component("server"),
			})
			if err != nil {
				env.logger.Error("command flow failed", "command", "serve", "err", err)
				return fmt.Errorf("run serve command: %w", err)
			}
			env.logger.Info("command flow complete", "command", "serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&httpBind, "http", "", "HTTP listen address (default from server.http_bind)")
	cmd.Flags().StringVar(&apiEndpoint, "api-endpoint", "", "HTTP API base endpoint")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp-endpoint", "", "MCP streamable HTTP endpoint")
	return cmd
}

func newExportCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the seeded board snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			env, err := openCommandEnv(opts, "export", stderr)
			if err != nil {
				return err
			}
			defer env.Close()

			env.logger.Info("command flow start", "command", "export")
			if err := writeJSON(stdout, outPath, env.store.ExportSnapshot()); err != nil {
				env.logger.Error("command flow failed", "command", "export", "err", err)
				return fmt.Errorf("run export command: %w", err)
			}
			env.logger.Info("command flow complete", "command", "export")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file path ('-' for stdout)")
	return cmd
}

// replayReport is the replay command output.
type replayReport struct {
	Outcomes []common.OutcomeView `json:"outcomes"`
	Export   app.Export           `json:"export"`
}

func newReplayCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "replay <script.toml>",
		Short: "Apply a TOML script of operations and print every outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			script, err := app.ParseScript(content)
			if err != nil {
				return fmt.Errorf("parse script %q: %w", args[0], err)
			}

			env, err := openCommandEnv(opts, "replay", stderr)
			if err != nil {
				return err
			}
			defer env.Close()

			env.logger.Info("command flow start", "command", "replay", "steps", len(script.Steps))
			outcomes, err := env.store.Replay(cmd.Context(), script)
			if err != nil {
				env.logger.Error("command flow failed", "command", "replay", "err", err)
				return fmt.Errorf("run replay command: %w", err)
			}
			report := replayReport{
				Outcomes: make([]common.OutcomeView, 0, len(outcomes)),
				Export:   env.store.ExportSnapshot(),
			}
			for _, out := range outcomes {
				report.Outcomes = append(report.Outcomes, common.NewOutcomeView(out))
			}
			if err := writeJSON(stdout, outPath, report); err != nil {
				return fmt.Errorf("run replay command: %w", err)
			}
			env.logger.Info("command flow complete", "command", "replay", "version", env.store.Version())
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file path ('-' for stdout)")
	return cmd
}

func newPathsCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := platform.DefaultPathsWithOptions(platform.Options{
				AppName: opts.appName,
				DevMode: opts.devMode,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", resolveConfigPath(opts, paths))
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "ledger: %s\n", paths.LedgerPath)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// runTUI opens the interactive board.
func runTUI(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	env, err := openCommandEnv(opts, "tui", stderr)
	if err != nil {
		return err
	}
	defer env.Close()

	env.logger.Info("command flow start", "command", "tui")
	tuiOpts := []tui.Option{
		tui.WithActivityRows(env.cfg.TUI.ActivityRows),
		tui.WithPreviewStyle(env.cfg.TUI.PreviewStyle),
		tui.WithShowFolder(env.cfg.TUI.ShowFolder),
		tui.WithKeyConfig(tui.KeyConfig{
			MultiSelect: env.cfg.Keys.MultiSelect,
			ActivityLog: env.cfg.Keys.ActivityLog,
			FolderPane:  env.cfg.Keys.FolderPane,
		}),
	}
	if reader := env.activityReader(); reader != nil {
		tuiOpts = append(tuiOpts, tui.WithActivityReader(reader))
	}
	m := tui.NewModel(env.store, tuiOpts...)

	env.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		env.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	if err := ctx.Err(); err != nil {
		env.logger.Warn("tui program interrupted", "err", err)
	}
	env.logger.Info("command flow complete", "command", "tui")
	return nil
}

// commandEnv is the resolved config, logger, ledger and store for one command.
type commandEnv struct {
	cfg         config.Config
	logger      *runtimeLogger
	ledger      *sqlite.Repository
	store       *app.Store
	unsubscribe func()
}

// openCommandEnv resolves paths and config, then builds the ledger and store.
func openCommandEnv(opts *rootOptions, command string, stderr io.Writer) (*commandEnv, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return nil, err
	}
	configPath := resolveConfigPath(opts, paths)

	cfg, err := config.Load(configPath, config.Default(paths.LedgerPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if mode := strings.TrimSpace(strings.ToLower(opts.ledgerMode)); mode != "" {
		cfg.Ledger.Mode = config.LedgerMode(mode)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("ledger override: %w", err)
		}
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Board rendering owns the terminal; runtime logs go to the dev file only.
		logger.SetConsoleEnabled(false)
	}
	env := &commandEnv{cfg: cfg, logger: logger}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir)
	logger.Info("configuration loaded", "config_path", configPath, "ledger_mode", cfg.Ledger.Mode, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	if err := env.openLedger(); err != nil {
		env.Close()
		return nil, err
	}

	storeOpts := []app.Option{app.WithLogger(logger.Component("store"))}
	if env.ledger != nil {
		storeOpts = append(storeOpts, app.WithRecorder(env.ledger))
	}
	store, err := app.NewStore(cfg.Days(), seedPlacements(cfg.Seed), storeOpts...)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("build task store: %w", err)
	}
	env.store = store
	env.unsubscribe = store.Subscribe(func(snap app.Snapshot) {
		logger.Debug("board changed", "version", snap.Version, "selected", len(snap.Selection), "folder", len(snap.Folder))
	})
	logger.Debug("task store initialized", "session_id", store.SessionID(), "days", len(cfg.Days()), "seed", len(cfg.Seed))
	return env, nil
}

func (e *commandEnv) openLedger() error {
	var (
		repo *sqlite.Repository
		err  error
	)
	switch e.cfg.Ledger.Mode {
	case config.LedgerModeOff:
		e.logger.Info("activity ledger disabled")
		return nil
	case config.LedgerModeFile:
		e.logger.Info("opening sqlite ledger", "path", e.cfg.Ledger.Path)
		repo, err = sqlite.Open(e.cfg.Ledger.Path)
	default:
		e.logger.Info("opening in-memory ledger")
		repo, err = sqlite.OpenInMemory()
	}
	if err != nil {
		e.logger.Error("sqlite open failed", "mode", e.cfg.Ledger.Mode, "err", err)
		return fmt.Errorf("open activity ledger: %w", err)
	}
	e.ledger = repo
	return nil
}

// activityReader returns the ledger as a reader, or nil when the ledger is off.
func (e *commandEnv) activityReader() app.ActivityReader {
	if e.ledger == nil {
		return nil
	}
	return e.ledger
}

// Close releases the ledger and log file.
func (e *commandEnv) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	if e.ledger != nil {
		if err := e.ledger.Close(); err != nil {
			e.logger.Warn("sqlite close failed", "err", err)
		}
	}
	if err := e.logger.Close(); err != nil && e.logger.shouldLogToSink(e.logger.consoleSink) {
		e.logger.Warn("close runtime log sink failed", "err", err)
	}
}

// seedPlacements maps [[seed]] entries onto store placements.
func seedPlacements(seed []config.SeedTask) []app.Placement {
	out := make([]app.Placement, 0, len(seed))
	for _, s := range seed {
		out = append(out, app.Placement{
			Day: domain.Day(s.Day),
			Task: domain.Task{
				ID:          s.ID,
				Title:       s.Title,
				Description: s.Description,
				Points:      s.Points,
			},
			InFolder: s.InFolder,
		})
	}
	return out
}

// resolveConfigPath applies --config, then WEEKPLAN_CONFIG, then the platform default.
func resolveConfigPath(opts *rootOptions, paths platform.Paths) string {
	if path := strings.TrimSpace(opts.configPath); path != "" {
		return path
	}
	if envPath := strings.TrimSpace(os.Getenv("WEEKPLAN_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// writeJSON writes v as indented JSON to stdout when outPath is "-", else to outPath.
func writeJSON(stdout io.Writer, outPath string, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "" || outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write json to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// parseBoolEnv reports the parsed value and whether name held a valid bool.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
