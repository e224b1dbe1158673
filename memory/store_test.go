package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/meikuraledutech/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_SaveAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Get a graph that doesn't exist yet
	g, err := s.GetGraph(ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, g)

	in := &workflow.Graph{ID: "g1", StartNode: "a", Nodes: []workflow.Node{{Name: "a", Tool: "t"}}}
	require.NoError(t, s.SaveGraph(ctx, in))

	// Mutating the caller's copy must not leak into the store
	in.Nodes[0].Tool = "changed"

	g, err = s.GetGraph(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "t", g.Nodes[0].Tool)
}

func TestGraph_SaveRequiresID(t *testing.T) {
	s := New()

	err := s.SaveGraph(context.Background(), &workflow.Graph{StartNode: "a"})
	assert.Error(t, err)
}

func TestGraph_ListEmpty(t *testing.T) {
	graphs, err := New().ListGraphs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, graphs)
	assert.Empty(t, graphs)
}

func TestRun_SaveAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	r, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, r)

	in := &workflow.Run{
		ID:      "r1",
		GraphID: "g1",
		Status:  workflow.StatusCompleted,
		State:   workflow.State{"list": []any{"a"}},
		Log: []workflow.StepLog{
			{StepIndex: 0, Node: "a", Timestamp: time.Unix(0, 0).UTC(), State: workflow.State{"list": []any{"a"}}},
		},
	}
	require.NoError(t, s.SaveRun(ctx, in))

	in.State["list"].([]any)[0] = "changed"
	in.Log[0].State["list"].([]any)[0] = "changed"
	in.Log = append(in.Log, workflow.StepLog{StepIndex: 1})

	r, err = s.GetRun(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, []any{"a"}, r.State["list"])
	require.Len(t, r.Log, 1)
	assert.Equal(t, []any{"a"}, r.Log[0].State["list"])
	assert.Equal(t, workflow.StatusCompleted, r.Status)

	// Snapshots handed out must not alias the stored ones either.
	r.Log[0].State["extra"] = true
	again, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	_, ok := again.Log[0].State["extra"]
	assert.False(t, ok)
}

func TestRun_SaveReplaces(t *testing.T) {
	s := New()
	ctx := context.Background()

	run := &workflow.Run{ID: "r1", Status: workflow.StatusRunning, State: workflow.State{}}
	require.NoError(t, s.SaveRun(ctx, run))

	run.Status = workflow.StatusFailed
	run.Error = "boom"
	require.NoError(t, s.SaveRun(ctx, run))

	r, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusFailed, r.Status)
	assert.Equal(t, "boom", r.Error)
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("g%03d", i)
			assert.NoError(t, s.SaveGraph(ctx, &workflow.Graph{ID: id, StartNode: "a"}))
		}()
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("r%03d", i)
			assert.NoError(t, s.SaveRun(ctx, &workflow.Run{ID: id, State: workflow.State{"i": i}}))
			r, err := s.GetRun(ctx, id)
			assert.NoError(t, err)
			assert.Equal(t, i, r.State["i"])
		}()
	}
	wg.Wait()

	graphs, err := s.ListGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, graphs, 100)
	assert.Equal(t, "g000", graphs[0].ID)
	assert.Equal(t, "g099", graphs[99].ID)
}
