package workflow_test

import (
	"testing"

	"github.com/meikuraledutech/workflow"
	"github.com/stretchr/testify/assert"
)

func TestStateMerge(t *testing.T) {
	s := workflow.State{"a": 1, "b": "old"}
	s.Merge(workflow.State{"b": "new", "c": true})

	assert.Equal(t, workflow.State{"a": 1, "b": "new", "c": true}, s)
}

func TestStateMerge_EmptyDelta(t *testing.T) {
	s := workflow.State{"a": 1}
	s.Merge(workflow.State{})
	s.Merge(nil)

	assert.Equal(t, workflow.State{"a": 1}, s)
}

func TestStateClone_Deep(t *testing.T) {
	orig := workflow.State{
		"list":   []any{"x", map[string]any{"k": "v"}},
		"nested": map[string]any{"inner": []any{1.0, 2.0}},
		"words":  []string{"a", "b"},
		"counts": map[string]int{"a": 1},
		"ints":   []int{1, 2},
	}
	c := orig.Clone()

	c["list"].([]any)[0] = "changed"
	c["list"].([]any)[1].(map[string]any)["k"] = "changed"
	c["nested"].(map[string]any)["inner"].([]any)[0] = 9.0
	c["words"].([]string)[0] = "changed"
	c["counts"].(map[string]int)["a"] = 9
	c["ints"].([]int)[0] = 9

	assert.Equal(t, "x", orig["list"].([]any)[0])
	assert.Equal(t, "v", orig["list"].([]any)[1].(map[string]any)["k"])
	assert.Equal(t, 1.0, orig["nested"].(map[string]any)["inner"].([]any)[0])
	assert.Equal(t, "a", orig["words"].([]string)[0])
	assert.Equal(t, 1, orig["counts"].(map[string]int)["a"])
	assert.Equal(t, 1, orig["ints"].([]int)[0])
}

func TestStateClone_Cycles(t *testing.T) {
	m := map[string]any{"k": "v"}
	m["self"] = m
	l := []any{"x", nil}
	l[1] = l
	counts := map[string]any{}
	counts["typed"] = map[string][]any{"back": {counts}}
	orig := workflow.State{"m": m, "l": l, "counts": counts, "shared": m}
	orig["state"] = orig

	c := orig.Clone()

	cm := c["m"].(map[string]any)
	cm["k"] = "changed"
	assert.Equal(t, "changed", cm["self"].(map[string]any)["k"])
	assert.Equal(t, "v", m["k"])
	assert.Equal(t, "changed", c["shared"].(map[string]any)["k"])

	cl := c["l"].([]any)
	cl[0] = "changed"
	assert.Equal(t, "changed", cl[1].([]any)[0])
	assert.Equal(t, "x", l[0])

	cc := c["counts"].(map[string]any)
	cc["new"] = true
	back := cc["typed"].(map[string][]any)["back"][0].(map[string]any)
	assert.Equal(t, true, back["new"])
	assert.NotContains(t, counts, "new")

	c["added"] = 1
	assert.Equal(t, 1, c["state"].(workflow.State)["added"])
	assert.NotContains(t, orig, "added")
}

func TestStateClone_Nil(t *testing.T) {
	var s workflow.State
	c := s.Clone()

	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"no", true},
		{0, false},
		{3, true},
		{0.0, false},
		{0.5, true},
		{uint8(0), false},
		{[]any{}, false},
		{[]any{1}, true},
		{map[string]any{}, false},
		{map[string]any{"k": 1}, true},
		{workflow.State{}, false},
		{struct{}{}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, workflow.Truthy(tt.value), "Truthy(%#v)", tt.value)
	}
}
