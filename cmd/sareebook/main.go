package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/kavyatex/sareebook/internal/buildinfo"
	"github.com/kavyatex/sareebook/internal/client/cli"
	"github.com/kavyatex/sareebook/internal/client/config"
	"github.com/kavyatex/sareebook/internal/client/db"
	"github.com/kavyatex/sareebook/internal/client/remote"
	"github.com/kavyatex/sareebook/internal/client/services"
	"github.com/kavyatex/sareebook/internal/client/syncmgr"
	"github.com/kavyatex/sareebook/internal/logging"

	_ "modernc.org/sqlite"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	// A .env file is optional; the environment itself still applies.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger logging.Logger = logging.NewDefault()
	if cfg.LogFile != "" {
		logger = logging.NewRotatingFileLogger(cfg.LogFile, zapcore.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userID := cfg.UserID
	if userID == "" {
		userID, err = cli.GetSimpleText(bufio.NewReader(os.Stdin), "Enter user id", os.Stdout)
		if err != nil || userID == "" {
			log.Fatal("a user id is required")
		}
	}

	store, err := db.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("opening local database: %v", err)
	}
	defer store.Close()

	src := remote.NewHTTPSource(cfg.RemoteBaseURL, cfg.RemoteAuthToken, cfg.RemoteTimeout)

	// The watcher session writes this flag; the service reads it before any
	// remote work.
	online := &atomic.Bool{}
	svc := services.NewOrderService(store, src, logger,
		services.WithOnlineCheck(online.Load),
		services.WithRetention(cfg.RetentionWindow),
		services.WithSuggestionsTTL(cfg.SuggestionsTTL),
	)

	manager := syncmgr.NewManager(svc, src, logger, online, cfg.OnlineCheckInterval, cfg.SyncSchedule)

	app := cli.NewApp(svc, manager, online, userID)
	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client exited with error", "error", err)
		os.Exit(1)
	}
}
