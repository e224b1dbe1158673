package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/workflow"
)

type graphCreateResponse struct {
	GraphID string `json:"graph_id"`
}

type graphRunRequest struct {
	GraphID      string         `json:"graph_id"`
	InitialState workflow.State `json:"initial_state"`
}

type graphRunResponse struct {
	RunID      string             `json:"run_id"`
	FinalState workflow.State     `json:"final_state"`
	Status     workflow.Status    `json:"status"`
	Log        []workflow.StepLog `json:"log"`
}

type graphStateResponse struct {
	RunID       string          `json:"run_id"`
	Status      workflow.Status `json:"status"`
	CurrentNode *string         `json:"current_node"`
	State       workflow.State  `json:"state"`
	LogLength   int             `json:"log_length"`
	Error       *string         `json:"error"`
}

// newApp wires the HTTP routes onto engine.
func newApp(engine *workflow.Engine, logger *slog.Logger) *fiber.App {
	app := fiber.New()

	app.Use(func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	})

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "workflow engine API"})
	})

	// ── Graphs ────────────────────────────────────────────────────────
	app.Post("/graph/create", func(c fiber.Ctx) error {
		var def workflow.Graph
		if err := c.Bind().JSON(&def); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		id, err := engine.CreateGraph(c.Context(), def)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(201).JSON(graphCreateResponse{GraphID: id})
	})

	app.Get("/graphs", func(c fiber.Ctx) error {
		graphs, err := engine.ListGraphs(c.Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(graphs)
	})

	// ── Runs ──────────────────────────────────────────────────────────
	app.Post("/graph/run", func(c fiber.Ctx) error {
		var req graphRunRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		// A started run is not aborted when the client goes away.
		ctx := context.WithoutCancel(c.Context())
		run, err := engine.RunGraph(ctx, req.GraphID, req.InitialState)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(graphRunResponse{
			RunID:      run.ID,
			FinalState: run.State,
			Status:     run.Status,
			Log:        run.Log,
		})
	})

	app.Get("/graph/state/:run_id", func(c fiber.Ctx) error {
		run, err := engine.GetRun(c.Context(), c.Params("run_id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(graphStateResponse{
			RunID:       run.ID,
			Status:      run.Status,
			CurrentNode: optional(run.CurrentNode),
			State:       run.State,
			LogLength:   len(run.Log),
			Error:       optional(run.Error),
		})
	})

	app.Get("/graph/:id", func(c fiber.Ctx) error {
		g, err := engine.GetGraph(c.Context(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(g)
	})

	return app
}

// writeError maps engine errors onto HTTP status codes.
func writeError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, workflow.ErrInvalidGraph):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrGraphNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "graph not found"})
	case errors.Is(err, workflow.ErrRunNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "run not found"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
