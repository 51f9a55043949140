package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvOwner    = "RIVALSCOPE_OWNER"
	EnvDBDriver = "RIVALSCOPE_DB_DRIVER"
	EnvDBDSN    = "RIVALSCOPE_DB_DSN"
	EnvAddr     = "RIVALSCOPE_ADDR"
)

// DefaultEnvFiles are loaded by LoadEnv when no files are given.
// Earlier files win because godotenv never overrides a variable that is
// already set.
var DefaultEnvFiles = []string{".env.development", ".env"}

// LoadEnv loads .env files into the process environment.
// Missing files are ignored; malformed files are an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv copies RIVALSCOPE_* environment variables onto c.
// It uses lookup so tests can inject a fake environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvOwner); ok && v != "" {
		c.Owner = v
	}
	if v, ok := lookup(EnvDBDriver); ok && v != "" {
		c.DBDriver = v
	}
	if v, ok := lookup(EnvDBDSN); ok && v != "" {
		c.DBDSN = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.ServeAddr = v
	}
}
