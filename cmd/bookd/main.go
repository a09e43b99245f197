package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"nanobook/params"
	"nanobook/pkg/api"
	"nanobook/pkg/exchange"
	"nanobook/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	var logger *zap.Logger
	var err error
	if cfg.Log.File != "" {
		logger, err = util.NewLoggerWithFile(cfg.Log.File)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	multi := exchange.NewMultiExchange()

	server := api.NewServer(multi, logger, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DefaultDepth:   cfg.Server.DefaultDepth,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.Start(cfg.Server.Addr); err != nil {
			logger.Fatal("api server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
}
