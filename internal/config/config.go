package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// Configure Viper search paths. If SetConfigFile was provided upstream,
	// it takes precedence; these paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "gridspike"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gridspike"))
		}
		v.AddConfigPath(".")
	}

	// Apply centralized defaults (lowest precedence)
	applyDefaults(v)

	// Read config file if present (overrides defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: GRIDSPIKE_* (highest among these sources)
	v.SetEnvPrefix("gridspike")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Normalize a few dependent values post-merge
	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}

	// Allow comma-separated env override for grid.page_size_options
	if s := strings.TrimSpace(os.Getenv("GRIDSPIKE_GRID_PAGE_SIZE_OPTIONS")); s != "" {
		var out []int
		for _, p := range strings.Split(s, ",") {
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &n); err == nil {
				out = append(out, n)
			}
		}
		if len(out) > 0 {
			v.Set("grid.page_size_options", out)
		}
	}
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/gridspike or ~/.local/share/gridspike
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "gridspike")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "gridspike")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "gridspike", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and conventions
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/gridspike.db"},
		{Key: "dataset", Default: "stocks", Comment: "Dataset shown when --dataset is not given"},
		{Key: "http_addr", Default: "127.0.0.1:8080", Comment: "HTTP listen address for gridspike-cli serve"},
		{Key: "datasets", Default: map[string]any{}, Comment: "Named CSV sources: [datasets.<name>] file/schema"},

		{Key: "grid.page_size", Default: 10, Comment: "Rows per page"},
		{Key: "grid.page_size_options", Default: []int{10, 20, 50, 100}, Comment: "Page sizes offered by the grid"},
		{Key: "grid.search_debounce", Default: "300ms", Comment: "Quiet period before search text applies"},
		{Key: "grid.max_sort_keys", Default: 3, Comment: "Maximum number of sort keys (1-3)"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.format", Default: "console", Comment: "Log encoding: console or json"},
	}
}

// ResolveDBPath uses data_dir and defaults to return the sqlite DB file path.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "gridspike.db")
}

// SearchDebounce parses grid.search_debounce, falling back to 300ms.
func SearchDebounce(v *viper.Viper) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString("grid.search_debounce")))
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// DatasetSource is a CSV source registered under [datasets.<name>].
type DatasetSource struct {
	Name   string
	File   string
	Schema string
}

// LookupDataset returns the registered source for a dataset name.
func LookupDataset(v *viper.Viper, name string) (DatasetSource, bool) {
	sub := v.Sub("datasets." + name)
	if sub == nil {
		return DatasetSource{}, false
	}
	src := DatasetSource{Name: name, File: sub.GetString("file"), Schema: sub.GetString("schema")}
	if src.Schema == "" {
		src.Schema = name
	}
	return src, src.File != ""
}

// CheckConfigValidity reports every problem at once.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		problems = append(problems, "data_dir is required")
	}
	if strings.TrimSpace(v.GetString("dataset")) == "" {
		problems = append(problems, "dataset is required")
	}
	if v.GetInt("grid.page_size") <= 0 {
		problems = append(problems, "grid.page_size must be greater than 0")
	}
	for _, n := range v.GetIntSlice("grid.page_size_options") {
		if n <= 0 {
			problems = append(problems, "grid.page_size_options entries must be greater than 0")
			break
		}
	}
	if d, err := time.ParseDuration(strings.TrimSpace(v.GetString("grid.search_debounce"))); err != nil || d < 0 {
		problems = append(problems, "grid.search_debounce must be a non-negative duration")
	}
	if n := v.GetInt("grid.max_sort_keys"); n < 1 || n > 3 {
		problems = append(problems, "grid.max_sort_keys must be between 1 and 3")
	}
	if addr := v.GetString("http_addr"); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			problems = append(problems, "http_addr must be host:port")
		}
	}
	switch v.GetString("log.level") {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "log.level must be one of debug, info, warn, error")
	}
	switch v.GetString("log.format") {
	case "console", "json":
	default:
		problems = append(problems, "log.format must be console or json")
	}
	for name := range v.GetStringMap("datasets") {
		if v.GetString("datasets."+name+".file") == "" {
			problems = append(problems, fmt.Sprintf("dataset %s missing file", name))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config: " + strings.Join(problems, "; "))
}
