package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/graphfile"
	"github.com/meikuraledutech/workflow/memory"
	"github.com/meikuraledutech/workflow/tools"
)

const sampleText = `Go is an open source programming language that makes it simple to build
secure, scalable systems. It was designed at Google to improve programming
productivity in an era of multicore, networked machines and large codebases.
Its concurrency mechanisms make it easy to write programs that get the most out
of multicore and networked machines. It compiles quickly to machine code yet has
the convenience of garbage collection and the power of run-time reflection.`

// Usage: example [graph-file]
//
// Without an argument the built-in summarization graph is used.
func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Wire the tools and the in-memory store behind the engine.
	reg := workflow.NewRegistry(nil)
	tools.Register(reg)
	engine := workflow.New(memory.New(), reg, func(o *workflow.Options) {
		o.Logger = logger
	})

	// ── Definition ────────────────────────────────────────────────────
	def := tools.SummarizationGraph()
	if len(os.Args) > 1 {
		loaded, err := graphfile.Load(os.Args[1])
		if err != nil {
			log.Fatalf("load graph: %v", err)
		}
		def = loaded
	}

	graphID, err := engine.CreateGraph(ctx, def)
	if err != nil {
		log.Fatalf("create graph: %v", err)
	}
	fmt.Printf("graph created: %s\n", graphID)

	// ── Run ───────────────────────────────────────────────────────────
	run, err := engine.RunGraph(ctx, graphID, workflow.State{
		"text":          sampleText,
		"chunk_size":    20,
		"target_length": 12,
	})
	if err != nil {
		log.Fatalf("run graph: %v", err)
	}

	fmt.Printf("\nrun %s finished with status %s\n", run.ID, run.Status)
	if run.Status == workflow.StatusFailed {
		fmt.Printf("error: %s\n", run.Error)
	}

	fmt.Println("\nsteps:")
	for _, step := range run.Log {
		fmt.Printf("  %2d %-18s keys=%s\n", step.StepIndex, step.Node, strings.Join(slices.Sorted(maps.Keys(step.State)), ","))
	}

	// ── Query ─────────────────────────────────────────────────────────
	stored, err := engine.GetRun(ctx, run.ID)
	if err != nil {
		log.Fatalf("get run: %v", err)
	}
	fmt.Println("\nfinal state:")
	printJSON(stored.State)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
