package kamin

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds settings for the REPL and the socket service.
type Config struct {
	Prompt      string `yaml:"prompt"`
	SockPath    string `yaml:"socket"`
	HistoryDB   string `yaml:"history_db"`   // sqlite file for traces; "" disables
	LineHistory string `yaml:"line_history"` // REPL line-editing history; "" disables
	MaxTraces   int    `yaml:"max_traces"`
}

func DefaultConfig() Config {
	return Config{
		Prompt:    "> ",
		SockPath:  "/tmp/kamin.sock",
		MaxTraces: 1000,
	}
}

// LoadConfig starts from defaults, overlays the YAML file at path (if path
// is non-empty and the file exists), then applies environment overrides.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	c.Prompt = envOr(getenv, "KAMIN_PROMPT", c.Prompt)
	c.SockPath = envOr(getenv, "KAMIN_SOCK", c.SockPath)
	c.HistoryDB = envOr(getenv, "KAMIN_HISTORY_DB", c.HistoryDB)
	c.LineHistory = envOr(getenv, "KAMIN_LINE_HISTORY", c.LineHistory)
	if v := getenv("KAMIN_MAX_TRACES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: KAMIN_MAX_TRACES: %w", err)
		}
		c.MaxTraces = n
	}
	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}
