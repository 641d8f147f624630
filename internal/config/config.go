// Package config reads the live host's settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cxd309/racer-engine/internal/protocol"
)

const (
	EnvAddr      = "RACER_ADDR"
	EnvAssetsDir = "RACER_ASSETS_DIR"
	EnvTickHz    = "RACER_TICK_HZ"
	EnvTrackFile = "RACER_TRACK_FILE"
	EnvEncoding  = "RACER_ENCODING"
)

const (
	DefaultAddr   = ":5000"
	DefaultTickHz = 60
	maxTickHz     = 1000
)

type Config struct {
	Addr      string
	AssetsDir string // empty means search the usual locations
	TickHz    int
	TrackFile string // empty means the built-in circuit
	Encoding  protocol.Encoding
}

// Load reads the given env files (".env" when none are named) without
// overriding variables already set, then builds a Config. Missing env files
// are not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:     DefaultAddr,
		TickHz:   DefaultTickHz,
		Encoding: protocol.EncodingJSON,
	}
	if v, err := GetEnvVariable(EnvAddr); err == nil {
		cfg.Addr = v
	}
	if v, err := GetEnvVariable(EnvAssetsDir); err == nil {
		cfg.AssetsDir = v
	}
	if v, err := GetEnvVariable(EnvTrackFile); err == nil {
		cfg.TrackFile = v
	}
	if v, err := GetEnvVariable(EnvTickHz); err == nil {
		hz, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTickHz, err)
		}
		if hz < 1 || hz > maxTickHz {
			return Config{}, fmt.Errorf("%s must be in [1, %d], got %d", EnvTickHz, maxTickHz, hz)
		}
		cfg.TickHz = hz
	}
	if v, err := GetEnvVariable(EnvEncoding); err == nil {
		enc, err := protocol.ParseEncoding(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvEncoding, err)
		}
		cfg.Encoding = enc
	}
	return cfg, nil
}

// GetEnvVariable returns the value of v, or an error if it is unset or empty.
func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}
	return b, nil
}
