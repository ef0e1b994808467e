package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"statuswatch/internal/config"
	"statuswatch/internal/notify"
	"statuswatch/internal/runner"
	logx "statuswatch/pkg/logx"
)

var version = "dev"

func main() {
	var (
		cfgPath     string
		statePath   string
		testMode    bool
		watchMode   bool
		showVersion bool
	)
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config yaml/json")
	flag.StringVar(&statePath, "state", "", "state file path (overrides state.path from config)")
	flag.BoolVar(&testMode, "test", false, "run a simulated transition sequence instead of a live check")
	flag.BoolVar(&watchMode, "watch", false, "keep running and check on the configured schedule")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("statuswatch", version)
		return
	}

	// .env is optional; real environments may set the tokens directly.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})
	defer logSvc.Close()
	mgr.SetLogger(log)

	r, err := runner.New(mgr, logSvc, log, notify.SecretsFromEnv(), statePath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	switch {
	case testMode:
		err = r.RunTest(ctx)
	case watchMode || cfg.Watch.Enabled:
		err = r.Watch(ctx)
	default:
		err = r.RunOnce(ctx)
	}
	if err != nil && ctx.Err() == nil {
		log.Error("run failed", logx.Err(err))
		_ = logSvc.Close()
		os.Exit(1)
	}
}
