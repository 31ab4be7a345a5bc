package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Swayam-the-coder/GRASP/internal/app"
	"github.com/Swayam-the-coder/GRASP/internal/config"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
	"github.com/Swayam-the-coder/GRASP/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./grasp.yaml or ~/.config/grasp/config.yaml if not provided)")
	flag.Parse()

	cfg, err := app.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, closeLog, err := app.OpenLogger(cfg.Logging, os.Stderr)
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer closeLog()

	creds, err := config.ResolveCredentials(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("credentials")
		log.Fatalf("%v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	var metricsServer *metrics.Server
	if cfg.Metrics.Addr != "" {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, reg, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	session, err := app.NewSession(cfg, creds, logger, m)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("grasp started")
	if _, err := tea.NewProgram(tui.New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		logger.Error().Err(err).Msg("ui exited")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := session.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("release engines")
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	logger.Info().Msg("grasp stopped")
}
