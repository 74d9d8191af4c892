package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   key derivation algorithm (pbkdf2-sha256, pbkdf2-sha512, argon2id)
//	-i int      iterations (PBKDF2 rounds or Argon2id passes)
//	-s int      salt length in bytes
//	-k int      derived key length in bytes
//	-t string   storage backend (memory, sqlite, postgres)
//	-d string   SQLite file or PostgreSQL DSN
//	-l string   log level
//	-f string   log format (text, json)
//
// os.Args is first filtered with flagx.FilterArgs so that the -c/-config flag
// handled by parseJson does not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], "a", "i", "s", "k", "t", "d", "l", "f")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Algorithm, "a", config.Algorithm, "key derivation algorithm")
	fs.IntVar(&config.Iterations, "i", config.Iterations, "iterations")
	fs.IntVar(&config.SaltLength, "s", config.SaltLength, "salt length (bytes)")
	fs.IntVar(&config.KeyLength, "k", config.KeyLength, "derived key length (bytes)")
	fs.StringVar(&config.Storage, "t", config.Storage, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
