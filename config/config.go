package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the node configuration for an academy ledger daemon.
type Config struct {
	DataDir          string `toml:"DataDir"`
	NetworkName      string `toml:"NetworkName"`
	Environment      string `toml:"Environment"`
	MetricsAddress   string `toml:"MetricsAddress"`
	Authority        string `toml:"Authority"`
	BackendSigner    string `toml:"BackendSigner"`
	GenesisMint      string `toml:"GenesisMint"`
	MaxDailyXP       uint64 `toml:"MaxDailyXP"`
	MaxAchievementXP uint64 `toml:"MaxAchievementXP"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "academy-local"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./academy-data"
	}
	if strings.TrimSpace(cfg.GenesisMint) == "" {
		cfg.GenesisMint = "XPS1"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the address fields and limits for obvious misconfiguration.
func (c *Config) Validate() error {
	if _, err := ParseAddress(c.Authority); err != nil {
		return fmt.Errorf("config: invalid Authority: %w", err)
	}
	if _, err := ParseAddress(c.BackendSigner); err != nil {
		return fmt.Errorf("config: invalid BackendSigner: %w", err)
	}
	if strings.TrimSpace(c.GenesisMint) == "" {
		return fmt.Errorf("config: GenesisMint must not be empty")
	}
	return nil
}

// ParseAddress decodes a 0x-prefixed 20-byte hex address.
func ParseAddress(value string) ([20]byte, error) {
	var out [20]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, err
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("address must be %d bytes, got %d", len(out), len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// createDefault creates and saves a default configuration file. The authority
// and backend placeholders must be replaced before genesis initialisation.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:          "./academy-data",
		NetworkName:      "academy-local",
		Environment:      "dev",
		MetricsAddress:   ":9090",
		Authority:        "0x" + strings.Repeat("00", 20),
		BackendSigner:    "0x" + strings.Repeat("00", 20),
		GenesisMint:      "XPS1",
		MaxDailyXP:       500,
		MaxAchievementXP: 500,
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
