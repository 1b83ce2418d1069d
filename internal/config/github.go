package config

import (
	"fmt"
	"net/url"
	"time"
)

// GitHubConfig holds GitHub data-source client configuration.
type GitHubConfig struct {
	// BaseURL is the API root, overridable for GitHub Enterprise.
	BaseURL string
	// Token is the bearer token used for API requests.
	Token string
	// RequestTimeout bounds a single API request.
	RequestTimeout time.Duration
	// PerPage is the listing page size (1-100).
	PerPage int
}

// LoadGitHubConfigFromEnv loads GitHub client configuration from environment
// variables.
func LoadGitHubConfigFromEnv() GitHubConfig {
	return GitHubConfig{
		BaseURL:        GetEnv("GITHUB_API_URL", "https://api.github.com"),
		Token:          GetEnv("GITHUB_TOKEN", ""),
		RequestTimeout: GetEnvDuration("GITHUB_REQUEST_TIMEOUT", 30*time.Second),
		PerPage:        GetEnvInt("GITHUB_PER_PAGE", 100),
	}
}

// Validate validates GitHub client configuration.
func (c GitHubConfig) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid GITHUB_API_URL: %w", err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("GITHUB_REQUEST_TIMEOUT must be greater than 0")
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("GITHUB_PER_PAGE must be between 1 and 100")
	}
	return nil
}
