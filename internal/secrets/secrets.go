// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API credentials. Values come from the process
// environment (optionally seeded from a .env file) or from a directory of
// plain-text files, where each filename is a key name and the trimmed file
// contents are the value.
//
// Supported key files: openai-api-key.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/quote-forge/pkg/types"
)

const (
	// OpenAIKeyEnv is the environment variable holding the API key.
	OpenAIKeyEnv = "OPENAI_API_KEY"

	// OpenAIKeyFile is the key file name inside the secrets directory.
	OpenAIKeyFile = "openai-api-key"
)

// ErrCredentialMissing is returned when no usable API key is configured.
var ErrCredentialMissing = errors.New("API key not configured")

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logrus.WithField("secret", name).WithError(err).Warn("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnv copies variables from a .env file into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ResolveAPIKey returns the fine-tuning API key. It loads envFile first,
// then prefers OPENAI_API_KEY and falls back to the openai-api-key file in
// dir. An empty key or the sample placeholder yields ErrCredentialMissing.
func ResolveAPIKey(envFile, dir string) (string, error) {
	if envFile != "" {
		if err := LoadEnv(envFile); err != nil {
			return "", err
		}
	}

	key := strings.TrimSpace(os.Getenv(OpenAIKeyEnv))
	if usable(key) {
		return key, nil
	}

	loaded, err := Load(dir)
	if err != nil {
		return "", err
	}
	if v := loaded[OpenAIKeyFile]; usable(v) {
		return v, nil
	}
	return "", fmt.Errorf("%w: set %s (in the environment or %s) or write the key to %s",
		ErrCredentialMissing, OpenAIKeyEnv, envFileName(envFile), filepath.Join(dir, OpenAIKeyFile))
}

func usable(key string) bool {
	return key != "" && key != types.PlaceholderAPIKey
}

func envFileName(path string) string {
	if path == "" {
		return ".env"
	}
	return path
}
