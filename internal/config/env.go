package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ProjectEnvPath is the per-directory env file.
const ProjectEnvPath = ".aura.env"

// LoadEnvFiles loads aura env files into the process environment.
// Load order (later wins): global (~/.config/aura/env), then project (.aura.env).
// Actual environment variables always win: keys already set before loading are never overwritten.
func LoadEnvFiles() {
	loadEnvFiles(GlobalEnvPath(), ProjectEnvPath)
}

func loadEnvFiles(paths ...string) {
	merged := make(map[string]string)
	for _, p := range paths {
		mergeEnvFile(merged, p)
	}
	for k, v := range merged {
		if _, set := os.LookupEnv(k); !set {
			_ = os.Setenv(k, v)
		}
	}
}

// mergeEnvFile reads a dotenv file and merges into dst (later call overwrites earlier).
// Silently skips missing or unreadable files.
func mergeEnvFile(dst map[string]string, path string) {
	envs, err := godotenv.Read(path)
	if err != nil {
		return
	}
	for k, v := range envs {
		dst[k] = v
	}
}

// ParseEnvFile parses dotenv-formatted data.
func ParseEnvFile(data []byte) (map[string]string, error) {
	return godotenv.UnmarshalBytes(data)
}

// GlobalEnvPath returns the path to the global aura env file.
func GlobalEnvPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "aura", "env")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "aura", "env")
}
