package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

// EnvLoader handles loading environment variables from .env files.
type EnvLoader struct {
	loaded  map[string]string
	baseDir string
	logger  *slog.Logger
}

// NewEnvLoader creates a new environment loader.
func NewEnvLoader(baseDir string) *EnvLoader {
	return &EnvLoader{
		baseDir: baseDir,
		loaded:  make(map[string]string),
		logger:  slog.Default(),
	}
}

// LoadEnvFiles loads environment variables from .env files in priority order.
// Variables already present in the process environment are never overridden.
func (l *EnvLoader) LoadEnvFiles(environment string) error {
	// Priority order (last one wins):
	// 1. .env.defaults (if exists)
	// 2. .env.{environment}
	// 3. .env.local
	// 4. .env

	envFiles := []string{
		".env.defaults",
		fmt.Sprintf(".env.%s", environment),
		".env.local",
		".env",
	}

	for _, filename := range envFiles {
		path := filepath.Join(l.baseDir, filename)
		if err := l.loadEnvFile(path); err != nil {
			if !os.IsNotExist(err) {
				l.logger.Warn("Error loading env file", "file", filename, "error", err)
			}
		}
	}

	for key, value := range l.loaded {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}

	return nil
}

// loadEnvFile loads a single .env file.
func (l *EnvLoader) loadEnvFile(path string) error {
	file, err := os.Open(path) // #nosec G304 -- path is built from a fixed file list
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	env, err := gotenv.StrictParse(file)
	if err != nil {
		return err
	}

	for key, value := range env {
		l.loaded[key] = value
	}
	return nil
}

// GetLoadedVars returns all loaded environment variables.
func (l *EnvLoader) GetLoadedVars() map[string]string {
	result := make(map[string]string)
	for k, v := range l.loaded {
		result[k] = v
	}
	return result
}

// AutoLoadEnv automatically loads environment files based on detected environment.
func AutoLoadEnv(baseDir string) error {
	loader := NewEnvLoader(baseDir)

	// Detect environment from ENV or ENVIRONMENT variables
	env := os.Getenv("ENV")
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if env == "" {
		env = EnvDevelopment
	}

	return loader.LoadEnvFiles(env)
}
