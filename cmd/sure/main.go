package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"sure/internal/cli"
	apphttp "sure/internal/http"
	applog "sure/internal/log"
	"sure/internal/releasenotes"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)

	store, err := cli.OpenLedger(logger, cfg.LedgerSeedPath)
	if err != nil {
		logger.Error("Failed to open ledger", applog.FieldError, err)
		os.Exit(1)
	}

	var releases releasenotes.Provider
	if cfg.ReleaseNotesEnabled() {
		releases = releasenotes.NewGitHub(cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubToken, cfg.ReleaseNotesTimeout)
		logger.Info("Release notes from GitHub", "owner", cfg.GitHubOwner, "repo", cfg.GitHubRepo)
	} else {
		logger.Info("Release notes disabled, changelog shows the fallback record")
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, store, releases,
		apphttp.WithSankeyOptions(cfg.SankeyOptions()),
		apphttp.WithLogger(logger),
	)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting sure server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"ledger", cfg.LedgerSeedPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
