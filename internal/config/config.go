package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sure/internal/cashflow"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Ledger
	LedgerSeedPath string

	// Release notes (GitHub). Both owner and repo empty disables the
	// provider and the changelog always shows the fallback record.
	GitHubOwner         string
	GitHubRepo          string
	GitHubToken         string
	ReleaseNotesTimeout time.Duration

	// Cash-flow chart colors
	CategoryPalette    string
	UncategorizedColor string

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LedgerSeedPath: getEnv("LEDGER_SEED_PATH", "./data/ledger.yaml"),

		GitHubOwner:         getEnv("GITHUB_OWNER", "we-promise"),
		GitHubRepo:          getEnv("GITHUB_REPO", "sure"),
		GitHubToken:         getEnv("GITHUB_TOKEN", ""),
		ReleaseNotesTimeout: getEnvDuration("RELEASE_NOTES_TIMEOUT", 5*time.Second),

		CategoryPalette:    getEnv("CATEGORY_PALETTE", ""),
		UncategorizedColor: getEnv("UNCATEGORIZED_COLOR", "#737373"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// ReleaseNotesEnabled reports whether a GitHub repository is configured.
func (c *Config) ReleaseNotesEnabled() bool {
	return c.GitHubOwner != "" && c.GitHubRepo != ""
}

// Palette returns the configured palette, or the default one when unset.
func (c *Config) Palette() cashflow.Palette {
	if p := cashflow.ParsePalette(c.CategoryPalette); len(p) > 0 {
		return p
	}
	return cashflow.DefaultPalette()
}

// SankeyOptions returns the chart options derived from the color settings.
func (c *Config) SankeyOptions() cashflow.Options {
	opts := cashflow.DefaultOptions()
	opts.Palette = c.Palette()
	if c.UncategorizedColor != "" {
		opts.UncategorizedColor = c.UncategorizedColor
	}
	return opts
}

var (
	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	// GitHub owner and repository names.
	githubName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	// A missing seed is fine (empty ledger); a directory is not.
	if c.LedgerSeedPath != "" {
		if info, err := os.Stat(c.LedgerSeedPath); err == nil && info.IsDir() {
			errors = append(errors, fmt.Sprintf("ledger seed path '%s' is a directory", c.LedgerSeedPath))
		}
	}

	// Validate GitHub repository
	if (c.GitHubOwner == "") != (c.GitHubRepo == "") {
		errors = append(errors, "GITHUB_OWNER and GITHUB_REPO must be set together")
	}
	if c.GitHubOwner != "" && !githubName.MatchString(c.GitHubOwner) {
		errors = append(errors, fmt.Sprintf("invalid GitHub owner '%s'", c.GitHubOwner))
	}
	if c.GitHubRepo != "" && !githubName.MatchString(c.GitHubRepo) {
		errors = append(errors, fmt.Sprintf("invalid GitHub repo '%s'", c.GitHubRepo))
	}
	if c.ReleaseNotesTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid release notes timeout %v: must be at least 100ms", c.ReleaseNotesTimeout))
	} else if c.ReleaseNotesTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid release notes timeout %v: must be at most 1 minute", c.ReleaseNotesTimeout))
	}

	// Validate colors
	for _, color := range cashflow.ParsePalette(c.CategoryPalette) {
		if !hexColor.MatchString(color) {
			errors = append(errors, fmt.Sprintf("invalid palette color '%s': must be #rgb or #rrggbb", color))
		}
	}
	if c.UncategorizedColor != "" && !hexColor.MatchString(c.UncategorizedColor) {
		errors = append(errors, fmt.Sprintf("invalid uncategorized color '%s': must be #rgb or #rrggbb", c.UncategorizedColor))
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if strings.EqualFold(strings.TrimSpace(c.LogLevel), level) {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
