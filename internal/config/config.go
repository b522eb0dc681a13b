package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/govjobalert/internal/joblog"
	"github.com/jimezsa/govjobalert/internal/models"
	"github.com/jimezsa/govjobalert/internal/network"
	"github.com/jimezsa/govjobalert/internal/notify"
	"github.com/jimezsa/govjobalert/internal/poll"
	"github.com/jimezsa/govjobalert/internal/scraper"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "govjobalert"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	EnvPrefix       = "GOVJOBALERT_"
)

// Config holds the daemon settings. Durations are Go duration strings
// ("5m", "1h") so the file stays hand-editable.
type Config struct {
	Interval      string          `json:"interval"`
	Snooze        string          `json:"snooze"`
	Timeout       string          `json:"timeout"`
	LogFile       string          `json:"log_file"`
	RehydrateSeen bool            `json:"rehydrate_seen"`
	Sources       []models.Source `json:"sources,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Interval:      envString(EnvPrefix+"INTERVAL", poll.DefaultInterval.String()),
		Snooze:        envString(EnvPrefix+"SNOOZE", notify.DefaultSnooze.String()),
		Timeout:       envString(EnvPrefix+"TIMEOUT", network.DefaultTimeout.String()),
		LogFile:       envString(EnvPrefix+"LOG_FILE", joblog.DefaultFileName),
		RehydrateSeen: envBool(EnvPrefix + "REHYDRATE"),
	}
}

func (c Config) IntervalDuration() (time.Duration, error) {
	return parseDuration("interval", c.Interval, poll.DefaultInterval)
}

func (c Config) SnoozeDuration() (time.Duration, error) {
	return parseDuration("snooze", c.Snooze, notify.DefaultSnooze)
}

func (c Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout, network.DefaultTimeout)
}

// EffectiveSources returns the configured registry, or the built-in one
// when the file names no sources.
func (c Config) EffectiveSources() ([]models.Source, error) {
	if len(c.Sources) == 0 {
		return scraper.DefaultSources(), nil
	}
	sources := make([]models.Source, 0, len(c.Sources))
	for _, src := range c.Sources {
		src.Name = strings.TrimSpace(src.Name)
		src.URL = strings.TrimSpace(src.URL)
		src.Strategy = scraper.NormalizeStrategy(src.Strategy)
		if src.Strategy == "" {
			src.Strategy = models.StrategyAnchor
		}
		sources = append(sources, src)
	}
	if err := scraper.ValidateSources(sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// Validate checks every field that is parsed lazily.
func (c Config) Validate() error {
	if _, err := c.IntervalDuration(); err != nil {
		return err
	}
	if _, err := c.SnoozeDuration(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	_, err := c.EffectiveSources()
	return err
}

func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing or blank file yields
// the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.Sources = scraper.DefaultSources()
		if err := writeConfig(configPath, cfg); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte("# one proxy URL per line\n"), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv(EnvPrefix + "PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, value)
	}
	return d, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envBool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && b
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
