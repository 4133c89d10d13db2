package main

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings tunes the browser and the retry loops. It is read from
// settings.yaml next to the binary and is never changed after load.
type Settings struct {
	BrowserProfilePath string `yaml:"browser_profile_path"`

	PageLoadTimeout  int `yaml:"page_load_timeout"`
	ElementTimeoutMs int `yaml:"element_timeout_ms"`

	ActionRetry PolicyConfig `yaml:"action_retry"`
	StockPoll   PolicyConfig `yaml:"stock_poll"`

	UserAgent      string `yaml:"user_agent"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`

	Headless               bool `yaml:"headless"`
	KeepBrowserOpen        bool `yaml:"keep_browser_open"`
	KeepBrowserOpenSeconds int  `yaml:"keep_browser_open_seconds"`

	DryRun    bool `yaml:"dry_run"`
	DebugMode bool `yaml:"debug_mode"`
}

// PolicyConfig is the yaml form of a RetryPolicy.
type PolicyConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	DelayMs     int `yaml:"delay_ms"`
}

func (p PolicyConfig) Policy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: p.MaxAttempts,
		Delay:       time.Duration(p.DelayMs) * time.Millisecond,
	}
}

func DefaultSettings() *Settings {
	return &Settings{
		BrowserProfilePath:     filepath.Join(getUserDataDir(), "profiles"),
		PageLoadTimeout:        30,
		ElementTimeoutMs:       10000,
		ActionRetry:            PolicyConfig{MaxAttempts: 3, DelayMs: 1000},
		StockPoll:              PolicyConfig{MaxAttempts: 0, DelayMs: 5000},
		UserAgent:              "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		ViewportWidth:          1920,
		ViewportHeight:         1080,
		Headless:               false,
		KeepBrowserOpen:        true,
		KeepBrowserOpenSeconds: 30,
		DryRun:                 false,
		DebugMode:              false,
	}
}

func (s *Settings) ElementTimeout() time.Duration {
	return time.Duration(s.ElementTimeoutMs) * time.Millisecond
}

func (s *Settings) PageTimeout() time.Duration {
	return time.Duration(s.PageLoadTimeout) * time.Second
}

// LoadSettings reads path, writing the defaults there first if the file
// does not exist yet.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.Save(path); err != nil {
			return nil, err
		}
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	if settings.BrowserProfilePath != "" {
		if err := os.MkdirAll(settings.BrowserProfilePath, 0755); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func getUserDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./ps5buyer-data"
	}
	return filepath.Join(home, ".ps5buyer")
}
