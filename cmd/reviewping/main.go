package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/reviewping/internal/adapter/driven/github"
	slackadapter "github.com/ericfisherdev/reviewping/internal/adapter/driven/slack"
	sqliteadapter "github.com/ericfisherdev/reviewping/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/reviewping/internal/adapter/driving/http"
	"github.com/ericfisherdev/reviewping/internal/application"
	"github.com/ericfisherdev/reviewping/internal/config"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"watch_repos", cfg.WatchRepos,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	settingsStore := sqliteadapter.NewSettingsRepo(db)
	notifiedStore := sqliteadapter.NewNotifiedRepo(db)
	historyStore := sqliteadapter.NewHistoryRepo(db)
	slackClient := slackadapter.NewClient()

	var ghClient driven.GitHubClient
	if cfg.HasGitHubCredentials() {
		ghClient = githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubUsername)
		slog.Info("github client created", "username", cfg.GitHubUsername)
	} else {
		slog.Info("no github credentials configured, merge detection and reviewer mutation disabled")
	}

	// 6. Create dispatch service.
	dispatchSvc := application.NewDispatchService(settingsStore, slackClient, historyStore)

	// 7. Seed the notified set and start the merge watcher.
	notifiedURLs, err := notifiedStore.ListAll(ctx)
	if err != nil {
		return err
	}
	notified := application.NewNotifiedSet(notifiedURLs)

	if ghClient != nil && len(cfg.WatchRepos) > 0 {
		watcher := application.NewMergeWatcher(
			ghClient,
			dispatchSvc,
			settingsStore,
			notifiedStore,
			notified,
			cfg.WatchRepos,
			cfg.PollInterval,
			cfg.MergeDebounce,
		)
		go watcher.Start(ctx)
		slog.Info("merge watcher started", "repos", cfg.WatchRepos, "interval", cfg.PollInterval)
	}

	// 8. Create HTTP handler and server.
	apiHandler := httphandler.NewHandler(dispatchSvc, settingsStore, historyStore, ghClient, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("reviewping started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
