package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Swayam-the-coder/GRASP/internal/app"
	"github.com/Swayam-the-coder/GRASP/internal/config"
	"github.com/Swayam-the-coder/GRASP/internal/mcpserver"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := app.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// stdout carries the protocol, so logs never go there.
	logger, closeLog, err := app.OpenLogger(cfg.Logging, io.Discard)
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer closeLog()

	creds, err := config.ResolveCredentials(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	reg := prometheus.NewRegistry()
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

	logger.Info().Str("version", version).Msg("mcp server started")
	if err := mcpserver.New(session, version, logger).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("mcp server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = session.Close(shutdownCtx)
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
}
