// Package config handles configuration for credkeeper, including defaults,
// JSON overlay, and command-line flags.
package config

import (
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/repomanager"
)

// Config holds runtime settings.
//
// Fields:
//   - Algorithm / Iterations / SaltLength / KeyLength: derivation parameters
//     used for new credentials. Existing records keep their own.
//   - Storage: memory, sqlite or postgres.
//   - DatabaseDSN: SQLite file path or PostgreSQL DSN (pgx).
//   - LogLevel / LogFormat: slog level (debug, info, warn, error) and
//     handler (text, json).
type Config struct {
	Algorithm   string
	Iterations  int
	SaltLength  int
	KeyLength   int
	Storage     string
	DatabaseDSN string
	LogLevel    string
	LogFormat   string
}

// LoadDefaults populates Config with PBKDF2-HMAC-SHA-256 at the iteration
// floor and an in-memory store.
func (c *Config) LoadDefaults() {
	p := cryptox.DefaultParams()
	c.Algorithm = string(p.Algorithm)
	c.Iterations = p.Iterations
	c.SaltLength = p.SaltLength
	c.KeyLength = p.KeyLength
	c.Storage = repomanager.StorageMemory
	c.DatabaseDSN = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// KDFParams converts the derivation settings. Validation is left to
// cryptox.Params.Validate.
func (c *Config) KDFParams() cryptox.Params {
	return cryptox.Params{
		Algorithm:  cryptox.Algorithm(c.Algorithm),
		Iterations: c.Iterations,
		SaltLength: c.SaltLength,
		KeyLength:  c.KeyLength,
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
