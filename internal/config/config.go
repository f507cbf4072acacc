package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glabrego/reddit-cli/internal/reddit"
)

const appDirName = "reddit-cli"

// Config holds runtime settings for the CLI app.
type Config struct {
	APIBaseURL   string
	SessionPath  string
	DBPath       string
	UserAgent    string
	DebugLogPath string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:   os.Getenv("REDDIT_API_BASE_URL"),
		SessionPath:  os.Getenv("REDDIT_CONFIG_PATH"),
		DBPath:       os.Getenv("REDDIT_DB_PATH"),
		UserAgent:    os.Getenv("REDDIT_USER_AGENT"),
		DebugLogPath: os.Getenv("REDDIT_DEBUG_LOG"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = reddit.DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = reddit.DefaultUserAgent
	}
	if cfg.SessionPath == "" || cfg.DBPath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		if cfg.SessionPath == "" {
			cfg.SessionPath = filepath.Join(dir, "config.json")
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "history.db")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultDir is the per-user directory holding the session file and the
// history database.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("APIBaseURL must be an http(s) URL: %s", c.APIBaseURL)
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.SessionPath == "" {
		return errors.New("SessionPath is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	return nil
}
