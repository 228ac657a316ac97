// Package config reads service configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Load pulls a local .env file into the environment if one is present.
// Deployed environments set their variables directly, so a missing
// file is not an error.
func Load() {
	_ = godotenv.Load()
}

// Env returns the value of key, or fallback when the variable is
// unset.
func Env(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
