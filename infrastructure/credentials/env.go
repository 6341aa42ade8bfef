package credentials

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Env provides access to environment variables
type Env interface {
	Get(key string) string
}

// OSEnv reads the process environment
type OSEnv struct{}

// Get returns the value of the environment variable or ""
func (OSEnv) Get(key string) string {
	return os.Getenv(key)
}

// MapEnv is a fixed environment, used when the process environment must not leak in
type MapEnv map[string]string

// Get returns the mapped value or ""
func (m MapEnv) Get(key string) string {
	return m[key]
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
