package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sure/internal/cashflow"
)

func validConfig() Config {
	return Config{
		Port:                "8081",
		ShutdownTimeout:     10 * time.Second,
		LedgerSeedPath:      "./data/ledger.yaml",
		GitHubOwner:         "we-promise",
		GitHubRepo:          "sure",
		ReleaseNotesTimeout: 5 * time.Second,
		UncategorizedColor:  "#737373",
		LogLevel:            "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "release notes disabled",
			mutate:  func(c *Config) { c.GitHubOwner, c.GitHubRepo = "", "" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "owner without repo",
			mutate:      func(c *Config) { c.GitHubRepo = "" },
			wantErr:     true,
			errorString: "GITHUB_OWNER and GITHUB_REPO must be set together",
		},
		{
			name:        "invalid repo name",
			mutate:      func(c *Config) { c.GitHubRepo = "sure/../x" },
			wantErr:     true,
			errorString: "invalid GitHub repo 'sure/../x'",
		},
		{
			name:        "release notes timeout too long",
			mutate:      func(c *Config) { c.ReleaseNotesTimeout = 2 * time.Minute },
			wantErr:     true,
			errorString: "must be at most 1 minute",
		},
		{
			name:        "bad palette color",
			mutate:      func(c *Config) { c.CategoryPalette = "#e99537,orange" },
			wantErr:     true,
			errorString: "invalid palette color 'orange'",
		},
		{
			name:        "bad uncategorized color",
			mutate:      func(c *Config) { c.UncategorizedColor = "#12345" },
			wantErr:     true,
			errorString: "invalid uncategorized color '#12345'",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "seed path is a directory",
			mutate:      func(c *Config) { c.LedgerSeedPath = dir },
			wantErr:     true,
			errorString: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 2 {
		t.Fatalf("expected 2 problems in one error, got %d: %v", got, err)
	}
}

func TestConfig_SankeyOptions(t *testing.T) {
	cfg := validConfig()
	opts := cfg.SankeyOptions()
	if diff := cmp.Diff(cashflow.DefaultPalette(), opts.Palette); diff != "" {
		t.Fatalf("empty CATEGORY_PALETTE must use the default palette:\n%s", diff)
	}

	cfg.CategoryPalette = "#111111, #222222"
	cfg.UncategorizedColor = "#999"
	opts = cfg.SankeyOptions()
	if diff := cmp.Diff(cashflow.Palette{"#111111", "#222222"}, opts.Palette); diff != "" {
		t.Fatalf("palette mismatch (-want +got):\n%s", diff)
	}
	if opts.UncategorizedColor != "#999" || opts.CashFlowColor != cashflow.SuccessColor {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "LEDGER_SEED_PATH", "GITHUB_OWNER", "GITHUB_REPO", "GITHUB_TOKEN",
		"RELEASE_NOTES_TIMEOUT", "CATEGORY_PALETTE", "UNCATEGORIZED_COLOR", "LOG_LEVEL", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.LedgerSeedPath != "./data/ledger.yaml" {
			t.Errorf("Load() LedgerSeedPath = %v, want ./data/ledger.yaml", cfg.LedgerSeedPath)
		}
		if !cfg.ReleaseNotesEnabled() || cfg.GitHubOwner != "we-promise" || cfg.GitHubRepo != "sure" {
			t.Errorf("Load() GitHub = %s/%s, want we-promise/sure", cfg.GitHubOwner, cfg.GitHubRepo)
		}
		if cfg.ReleaseNotesTimeout != 5*time.Second {
			t.Errorf("Load() ReleaseNotesTimeout = %v, want 5s", cfg.ReleaseNotesTimeout)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults must validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("LEDGER_SEED_PATH", "/tmp/ledger.yaml")
		t.Setenv("GITHUB_OWNER", "acme")
		t.Setenv("GITHUB_REPO", "books")
		t.Setenv("RELEASE_NOTES_TIMEOUT", "2s")
		t.Setenv("CATEGORY_PALETTE", "#111111,#222222")
		t.Setenv("LOG_LEVEL", "debug")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.LedgerSeedPath != "/tmp/ledger.yaml" {
			t.Errorf("Load() LedgerSeedPath = %v, want /tmp/ledger.yaml", cfg.LedgerSeedPath)
		}
		if cfg.GitHubOwner != "acme" || cfg.GitHubRepo != "books" {
			t.Errorf("Load() GitHub = %s/%s, want acme/books", cfg.GitHubOwner, cfg.GitHubRepo)
		}
		if cfg.ReleaseNotesTimeout != 2*time.Second {
			t.Errorf("Load() ReleaseNotesTimeout = %v, want 2s", cfg.ReleaseNotesTimeout)
		}
		if len(cfg.Palette()) != 2 {
			t.Errorf("Load() Palette = %v, want 2 colors", cfg.Palette())
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("invalid duration falls back", func(t *testing.T) {
		t.Setenv("RELEASE_NOTES_TIMEOUT", "soon")
		if cfg := Load(); cfg.ReleaseNotesTimeout != 5*time.Second {
			t.Errorf("Load() ReleaseNotesTimeout = %v, want 5s", cfg.ReleaseNotesTimeout)
		}
	})
}
