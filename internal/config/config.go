// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken    string
	GitHubUsername string
	WatchRepos     []string
	PollInterval   time.Duration
	MergeDebounce  time.Duration
	ListenAddr     string
	DBPath         string
}

// HasGitHubCredentials returns true when both GitHubToken and GitHubUsername
// are non-empty. Used by the composition root to decide whether to create a
// GitHub client and start the merge watcher.
func (c *Config) HasGitHubCredentials() bool {
	return c.GitHubToken != "" && c.GitHubUsername != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// GitHub credentials (REVIEWPING_GITHUB_TOKEN, REVIEWPING_GITHUB_USERNAME) are
// optional; without them the service still dispatches API-triggered
// notifications, but merge detection and reviewer mutation are inactive.
// Optional variables with defaults: REVIEWPING_POLL_INTERVAL (30s),
// REVIEWPING_MERGE_DEBOUNCE (1s), REVIEWPING_LISTEN_ADDR (127.0.0.1:8484),
// REVIEWPING_DB_PATH (reviewping.db), REVIEWPING_WATCH_REPOS (empty,
// comma-separated owner/repo list).
func Load() (*Config, error) {
	token := os.Getenv("REVIEWPING_GITHUB_TOKEN")
	username := os.Getenv("REVIEWPING_GITHUB_USERNAME")

	pollInterval := 30 * time.Second
	if v, ok := os.LookupEnv("REVIEWPING_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REVIEWPING_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		pollInterval = parsed
	}

	mergeDebounce := 1 * time.Second
	if v, ok := os.LookupEnv("REVIEWPING_MERGE_DEBOUNCE"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REVIEWPING_MERGE_DEBOUNCE has invalid duration %q: %w", v, err)
		}
		mergeDebounce = parsed
	}

	listenAddr := "127.0.0.1:8484"
	if v, ok := os.LookupEnv("REVIEWPING_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "reviewping.db"
	if v, ok := os.LookupEnv("REVIEWPING_DB_PATH"); ok {
		dbPath = v
	}

	var watchRepos []string
	if v, ok := os.LookupEnv("REVIEWPING_WATCH_REPOS"); ok && v != "" {
		for _, repo := range strings.Split(v, ",") {
			repo = strings.TrimSpace(repo)
			if repo == "" {
				continue
			}
			if !strings.Contains(repo, "/") {
				return nil, fmt.Errorf("REVIEWPING_WATCH_REPOS entry %q is not in owner/repo format", repo)
			}
			watchRepos = append(watchRepos, repo)
		}
	}
	if watchRepos == nil {
		watchRepos = []string{}
	}

	return &Config{
		GitHubToken:    token,
		GitHubUsername: username,
		WatchRepos:     watchRepos,
		PollInterval:   pollInterval,
		MergeDebounce:  mergeDebounce,
		ListenAddr:     listenAddr,
		DBPath:         dbPath,
	}, nil
}
