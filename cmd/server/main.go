package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/david/salesforce-mock/internal/api"
	"github.com/david/salesforce-mock/internal/config"
	"github.com/david/salesforce-mock/internal/db"
	"github.com/david/salesforce-mock/internal/logging"
	"github.com/david/salesforce-mock/internal/query"
	"github.com/david/salesforce-mock/internal/seed"
)

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = config.DefaultPath
	}
	configPath := flag.String("config", defaultPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": %q}\n", *configPath, err.Error())
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	records, err := seed.Records(cfg.Seed)
	if err != nil {
		logger.Fatal("failed to load opportunity records", zap.String("op", "main"), zap.Error(err))
	}
	store, err := db.NewStore(records)
	if err != nil {
		logger.Fatal("failed to build opportunity store", zap.String("op", "main"), zap.Error(err))
	}

	engine := query.NewEngine(store, query.SleepDelay(cfg.Server.LookupDelay))
	srv := api.NewServer(engine, logger, api.Options{AllowOrigins: cfg.CORS.AllowOrigins})

	logger.Info("server starting",
		zap.String("op", "main"),
		zap.String("address", cfg.Address()),
		zap.Int("records", store.Len()),
		zap.Duration("lookup_delay", cfg.Server.LookupDelay),
	)
	if err := srv.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.String("op", "main"), zap.Error(err))
	}
}
