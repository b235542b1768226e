package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"academychain/config"
	"academychain/core"
	"academychain/native/economy"
	"academychain/observability/logging"
	"academychain/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the academyd TOML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("academyd", cfg.Environment)

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "state"))
	if err != nil {
		logger.Error("open state database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	academy := core.NewAcademy(db, core.WithLogger(logger))

	if _, err := academy.Config(); err != nil {
		if !errors.Is(err, economy.ErrConfigMissing) {
			logger.Error("read academy config", "err", err)
			os.Exit(1)
		}
		authority, err := config.ParseAddress(cfg.Authority)
		if err != nil {
			logger.Error("parse authority", "err", err)
			os.Exit(1)
		}
		backend, err := config.ParseAddress(cfg.BackendSigner)
		if err != nil {
			logger.Error("parse backend signer", "err", err)
			os.Exit(1)
		}
		if _, err := academy.Initialize(authority, backend, cfg.GenesisMint, cfg.MaxDailyXP, cfg.MaxAchievementXP); err != nil {
			logger.Error("genesis initialisation", "err", err)
			os.Exit(1)
		}
		logger.Info("academy config initialised",
			"network", cfg.NetworkName,
			"mint", cfg.GenesisMint,
			"maxDailyXp", cfg.MaxDailyXP,
		)
	}

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: cfg.MetricsAddress, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer server.Close()
		logger.Info("metrics listening", "addr", cfg.MetricsAddress)
	}

	logger.Info("academyd started", "network", cfg.NetworkName, "dataDir", cfg.DataDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("academyd shutting down")
}
