package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/commerce-pulse/internal/api"
	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/dataset"
	"github.com/ignite/commerce-pulse/internal/pkg/logger"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

// buildSource picks the dataset source from config.
func buildSource(ctx context.Context, cfg *config.Config) (dataset.Source, func(), error) {
	switch cfg.Dataset.Source {
	case "s3":
		src, err := dataset.NewS3Source(ctx, cfg.Dataset.S3Bucket, cfg.Dataset.S3Region,
			cfg.Dataset.S3Prefix, cfg.Dataset.AWSProfile)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to s3: %w", err)
		}
		return src, func() {}, nil
	case "sql":
		src, err := dataset.NewSQLSource(cfg.Dataset.SQLDriver, cfg.Dataset.SQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		return src, func() { src.Close() }, nil
	default:
		return dataset.DirSource{Dir: cfg.Dataset.Dir}, func() {}, nil
	}
}

func main() {
	configPath := flag.String("config", "", "path to config YAML (optional)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err.Error())
		os.Exit(1)
	}

	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Error("startup check failed", "error", err.Error())
		os.Exit(1)
	}

	ctx := context.Background()
	src, closeSource, err := buildSource(ctx, cfg)
	if err != nil {
		logger.Error("building dataset source", "error", err.Error())
		os.Exit(1)
	}
	defer closeSource()

	logger.Info("loading dataset", "source", cfg.Dataset.Source)
	tables, err := src.Load(ctx)
	if err != nil {
		logger.Error("loading dataset", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("dataset loaded",
		"orders", len(tables.Orders),
		"items", len(tables.Items),
		"products", len(tables.Products),
		"customers", len(tables.Customers),
		"reviews", len(tables.Reviews),
		"payments", len(tables.Payments))

	server := api.NewServer(tables, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err.Error())
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err.Error())
			os.Exit(1)
		}
	}
}
