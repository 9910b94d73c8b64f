package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"meditrack/internal/config"
	"meditrack/internal/logger"
	"meditrack/internal/ratelimit"
	"meditrack/internal/service"
	"meditrack/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	clk := clockwork.NewRealClock()
	st := store.New(cfg.Store.Path, clk, log)
	tr := service.New(st, service.Options{
		Clock:         clk,
		Limiter:       ratelimit.New(cfg.Login.RefillEvery, cfg.Login.MaxFailures, cfg.Login.ForgetAfter),
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.IdleTTL,
		Logger:        log,
	})
	log.Debug("starting", zap.String("data_file", st.Path()))

	if err := newShell(tr, os.Stdin, os.Stdout).run(); err != nil {
		log.Error("shell", zap.Error(err))
		os.Exit(1)
	}
}
