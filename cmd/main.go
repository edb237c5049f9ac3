// Package cmd implements the stax subcommands.
package cmd

import (
	"os"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vkovalev/sharestax"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reporting")
	c.Register(&leftoverCmd{}, "reporting")
	c.Register(&versionCmd{}, "")
}

// env returns an environment default, after loading a .env file if one
// exists next to the working directory.
func env(key, fallback string) string {
	_ = godotenv.Load()
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the process logger from the shared logging flags.
func newLogger(level string, pretty bool) zerolog.Logger {
	return sharestax.NewLogger(sharestax.LogConfig{Level: level, Pretty: pretty})
}
