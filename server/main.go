package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/graphfile"
	"github.com/meikuraledutech/workflow/memory"
	"github.com/meikuraledutech/workflow/tools"
)

func main() {
	cfg, err := LoadConfig(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	reg := workflow.NewRegistry(nil)
	tools.Register(reg)

	engine := workflow.New(memory.New(), reg, func(o *workflow.Options) {
		o.Workers = cfg.Workers
		o.Logger = logger
	})

	if err := seedGraphs(context.Background(), engine, cfg.GraphsDir, logger); err != nil {
		return err
	}

	app := newApp(engine, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.HTTPAddr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	logger.Info("listening", "addr", cfg.HTTPAddr, "tools", reg.Names(), "workers", cfg.Workers)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// seedGraphs registers the example summarization graph and every definition
// found in dir (if set).
func seedGraphs(ctx context.Context, engine *workflow.Engine, dir string, logger *slog.Logger) error {
	id, err := engine.CreateGraph(ctx, tools.SummarizationGraph())
	if err != nil {
		return fmt.Errorf("register example graph: %w", err)
	}
	logger.Info("example summarization graph registered", "graph_id", id)

	if dir == "" {
		return nil
	}

	files, err := graphfile.LoadDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		id, err := engine.CreateGraph(ctx, f.Graph)
		if err != nil {
			return fmt.Errorf("register %s: %w", f.Path, err)
		}
		logger.Info("graph loaded", "path", f.Path, "graph_id", id)
	}
	return nil
}
