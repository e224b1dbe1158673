// Package tools provides the text-summarization capabilities used by the
// example workflow: splitting text into chunks, summarizing each chunk,
// merging the summaries and refining the result under a word limit.
package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/meikuraledutech/workflow"
)

// Tool names as they are referenced from graph nodes.
const (
	SplitText       = "split_text"
	SummarizeChunks = "summarize_chunks"
	MergeSummaries  = "merge_summaries"
	RefineSummary   = "refine_summary"
)

const (
	defaultChunkSize     = 80
	defaultTargetLength  = 120
	defaultMaxIterations = 5
	fallbackSummaryWords = 25
)

// Register adds all tools of this package to r. They are CPU-bound and
// registered as blocking capabilities.
func Register(r *workflow.Registry) {
	r.Register(SplitText, workflow.Blocking(Split))
	r.Register(SummarizeChunks, workflow.Blocking(Summarize))
	r.Register(MergeSummaries, workflow.Blocking(Merge))
	r.Register(RefineSummary, workflow.Blocking(Refine))
}

// SummarizationGraph returns the example workflow:
// split_text -> summarize_chunks -> merge_summaries -> refine_summary, where
// refine_summary repeats until summary_within_limit is true.
func SummarizationGraph() workflow.Graph {
	return workflow.Graph{
		StartNode: SplitText,
		Nodes: []workflow.Node{
			{Name: SplitText, Tool: SplitText, Next: SummarizeChunks},
			{Name: SummarizeChunks, Tool: SummarizeChunks, Next: MergeSummaries},
			{Name: MergeSummaries, Tool: MergeSummaries, Next: RefineSummary},
			{
				Name:         RefineSummary,
				Tool:         RefineSummary,
				ConditionKey: "summary_within_limit",
				NextIfTrue:   workflow.End,
				NextIfFalse:  RefineSummary,
			},
		},
	}
}

// Split breaks "text" into chunks of "chunk_size" words.
//
// Output: chunks.
func Split(state workflow.State) (workflow.State, error) {
	size, err := intValue(state, "chunk_size", defaultChunkSize)
	if err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, fmt.Errorf("tools: chunk_size must be positive, got %d", size)
	}

	words := strings.Fields(stringValue(state, "text"))
	chunks := []string{}
	for i := 0; i < len(words); i += size {
		end := min(i+size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return workflow.State{"chunks": chunks}, nil
}

// Summarize keeps the first sentence of every chunk, or its first 25 words
// when the chunk has no sentence.
//
// Output: summaries.
func Summarize(state workflow.State) (workflow.State, error) {
	chunks, err := stringsValue(state, "chunks")
	if err != nil {
		return nil, err
	}

	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		summaries = append(summaries, firstSentence(chunk))
	}
	return workflow.State{"summaries": summaries}, nil
}

func firstSentence(chunk string) string {
	for _, s := range strings.Split(chunk, ".") {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	words := strings.Fields(chunk)
	return strings.Join(words[:min(fallbackSummaryWords, len(words))], " ")
}

// Merge joins "summaries" into a single string.
//
// Output: merged_summary.
func Merge(state workflow.State) (workflow.State, error) {
	summaries, err := stringsValue(state, "summaries")
	if err != nil {
		return nil, err
	}
	return workflow.State{"merged_summary": strings.Join(summaries, ". ")}, nil
}

// Refine shortens "merged_summary" to at most "target_length" words,
// counting its invocations in "iteration". It reports done through
// summary_within_limit once the summary fits or "max_iterations" is reached.
//
// Output: final_summary, iteration, summary_within_limit and, while not
// done, the shortened merged_summary.
func Refine(state workflow.State) (workflow.State, error) {
	target, err := intValue(state, "target_length", defaultTargetLength)
	if err != nil {
		return nil, err
	}
	maxIterations, err := intValue(state, "max_iterations", defaultMaxIterations)
	if err != nil {
		return nil, err
	}
	iteration, err := intValue(state, "iteration", 0)
	if err != nil {
		return nil, err
	}
	iteration++

	words := strings.Fields(stringValue(state, "merged_summary"))
	truncated := strings.Join(words[:clamp(target, len(words))], " ")

	if len(words) <= target || iteration >= maxIterations {
		return workflow.State{
			"final_summary":        truncated,
			"iteration":            iteration,
			"summary_within_limit": true,
		}, nil
	}

	return workflow.State{
		"merged_summary":       truncated,
		"final_summary":        truncated,
		"iteration":            iteration,
		"summary_within_limit": false,
	}, nil
}

func clamp(n, length int) int {
	return max(0, min(n, length))
}

func stringValue(state workflow.State, key string) string {
	switch v := state[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func stringsValue(state workflow.State, key string) ([]string, error) {
	switch v := state[key].(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("tools: %s[%d] must be a string, got %T", key, i, e)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tools: %s must be a list of strings, got %T", key, v)
	}
}

func intValue(state workflow.State, key string, def int) (int, error) {
	switch v := state[key].(type) {
	case nil:
		return def, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("tools: %s must be a finite number", key)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("tools: %s: %w", key, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("tools: %s: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("tools: %s must be an integer, got %T", key, v)
	}
}
