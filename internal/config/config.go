package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/hylla/weekplan/internal/domain"
)

type LedgerMode string

const (
	LedgerModeMemory LedgerMode = "memory"
	LedgerModeFile   LedgerMode = "file"
	LedgerModeOff    LedgerMode = "off"
)

type Config struct {
	Week    WeekConfig    `toml:"week"`
	Seed    []SeedTask    `toml:"seed"`
	Logging LoggingConfig `toml:"logging"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Server  ServerConfig  `toml:"server"`
	TUI     TUIConfig     `toml:"tui"`
	Keys    KeyConfig     `toml:"keys"`
}

type WeekConfig struct {
	Days []string `toml:"days"`
}

type SeedTask struct {
	ID          int    `toml:"id"`
	Day         string `toml:"day"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Points      int    `toml:"points"`
	InFolder    bool   `toml:"in_folder"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LedgerConfig struct {
	Mode LedgerMode `toml:"mode"`
	Path string     `toml:"path"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type TUIConfig struct {
	ShowFolder   bool   `toml:"show_folder"`
	PreviewStyle string `toml:"preview_style"` // dark | light | notty
	ActivityRows int    `toml:"activity_rows"`
}

type KeyConfig struct {
	MultiSelect string `toml:"multi_select"`
	ActivityLog string `toml:"activity_log"`
	FolderPane  string `toml:"folder_pane"`
}

func defaultSeed() []SeedTask {
	return []SeedTask{
		{ID: 1, Day: "Monday", Title: "Plan the week", Description: "Review open items and set priorities.", Points: 1},
		{ID: 2, Day: "Monday", Title: "Client sync", Description: "Weekly call with **ACME**.", Points: 2, InFolder: true},
		{ID: 3, Day: "Tuesday", Title: "Write API draft", Points: 5},
		{ID: 4, Day: "Thursday", Title: "Code review", Points: 3},
		{ID: 5, Day: "Friday", Title: "Invoice hours", Description: "Send the billing folder totals.", Points: 1},
	}
}

func Default(ledgerPath string) Config {
	days := make([]string, 0, domain.WeekLength)
	for _, day := range domain.DefaultWeek() {
		days = append(days, string(day))
	}
	return Config{
		Week: WeekConfig{
			Days: days,
		},
		Seed: defaultSeed(),
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".weekplan/log",
			},
		},
		Ledger: LedgerConfig{
			Mode: LedgerModeMemory,
			Path: ledgerPath,
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:5437",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		TUI: TUIConfig{
			ShowFolder:   true,
			PreviewStyle: "dark",
			ActivityRows: 20,
		},
		Keys: KeyConfig{
			MultiSelect: "m",
			ActivityLog: "g",
			FolderPane:  "b",
		},
	}
}

// Load reads path over defaults. A missing or empty file yields the defaults.
// A [[seed]] list or week.days in the file replaces the default entirely.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// Array tables append to existing slices, so lists are decoded from nil.
	cfg.Seed = nil
	cfg.Week.Days = nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if cfg.Seed == nil {
		cfg.Seed = defaults.Seed
	}
	if cfg.Week.Days == nil {
		cfg.Week.Days = defaults.Week.Days
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	days := c.Days()
	if err := domain.ValidateWeek(days); err != nil {
		return fmt.Errorf("week.days: %w", err)
	}

	seenID := map[int]struct{}{}
	for idx, seed := range c.Seed {
		if _, err := domain.NewTask(domain.TaskInput{
			ID:          seed.ID,
			Title:       seed.Title,
			Description: seed.Description,
			Points:      seed.Points,
		}); err != nil {
			return fmt.Errorf("seed[%d]: %w", idx, err)
		}
		if !domain.ContainsDay(days, domain.Day(seed.Day)) {
			return fmt.Errorf("seed[%d].day references unknown day %q", idx, seed.Day)
		}
		if _, ok := seenID[seed.ID]; ok {
			return fmt.Errorf("seed[%d].id is duplicated: %d", idx, seed.ID)
		}
		seenID[seed.ID] = struct{}{}
	}

	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	switch c.Ledger.Mode {
	case LedgerModeMemory, LedgerModeOff:
	case LedgerModeFile:
		if strings.TrimSpace(c.Ledger.Path) == "" {
			return errors.New("ledger.path is required when ledger.mode is file")
		}
	default:
		return fmt.Errorf("invalid ledger.mode: %q", c.Ledger.Mode)
	}

	if strings.TrimSpace(c.Server.HTTPBind) == "" {
		return errors.New("server.http_bind is required")
	}
	for name, endpoint := range map[string]string{"server.api_endpoint": c.Server.APIEndpoint, "server.mcp_endpoint": c.Server.MCPEndpoint} {
		if !strings.HasPrefix(strings.TrimSpace(endpoint), "/") {
			return fmt.Errorf("%s must start with /: %q", name, endpoint)
		}
	}

	switch strings.TrimSpace(strings.ToLower(c.TUI.PreviewStyle)) {
	case "", "dark", "light", "notty":
	default:
		return fmt.Errorf("invalid tui.preview_style: %q", c.TUI.PreviewStyle)
	}
	if c.TUI.ActivityRows < 0 {
		return errors.New("tui.activity_rows must be >= 0")
	}

	return nil
}

// Days returns the configured bucket names.
func (c Config) Days() []domain.Day {
	out := make([]domain.Day, 0, len(c.Week.Days))
	for _, day := range c.Week.Days {
		out = append(out, domain.NormalizeDay(domain.Day(day)))
	}
	return out
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
