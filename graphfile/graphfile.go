// Package graphfile reads workflow graph definitions from files.
//
// Supported formats, selected by extension:
//
//	.json         the same document accepted by POST /graph/create
//	.yaml, .yml   the same fields in YAML
//	.hcl          start_node attribute plus one labelled block per node:
//
//	start_node = "split"
//
//	node "split" {
//	  tool = "split_text"
//	  next = "summarize"
//	}
package graphfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/meikuraledutech/workflow"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("graphfile: unsupported format")

// File is a definition read from disk.
type File struct {
	Path  string
	Graph workflow.Graph
}

// hclGraph mirrors workflow.Graph with nodes as labelled blocks.
type hclGraph struct {
	StartNode string    `hcl:"start_node"`
	Nodes     []hclNode `hcl:"node,block"`
}

type hclNode struct {
	Name         string `hcl:"name,label"`
	Tool         string `hcl:"tool"`
	Next         string `hcl:"next,optional"`
	ConditionKey string `hcl:"condition_key,optional"`
	NextIfTrue   string `hcl:"next_if_true,optional"`
	NextIfFalse  string `hcl:"next_if_false,optional"`
}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".hcl":
		return true
	}
	return false
}

// Load reads and decodes the definition at path. The result is not
// validated; that happens when the graph is created.
func Load(path string) (workflow.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return workflow.Graph{}, fmt.Errorf("graphfile: read: %w", err)
	}
	return Decode(path, src)
}

// Decode decodes src using the format implied by filename's extension.
func Decode(filename string, src []byte) (workflow.Graph, error) {
	var g workflow.Graph

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(src))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&g); err != nil {
			return workflow.Graph{}, fmt.Errorf("graphfile: decode %s: %w", filename, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(src))
		dec.KnownFields(true)
		if err := dec.Decode(&g); err != nil {
			return workflow.Graph{}, fmt.Errorf("graphfile: decode %s: %w", filename, err)
		}
	case ".hcl":
		var h hclGraph
		if err := hclsimple.Decode(filename, src, nil, &h); err != nil {
			return workflow.Graph{}, fmt.Errorf("graphfile: decode %s: %w", filename, err)
		}
		g = h.graph()
	default:
		return workflow.Graph{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	return g, nil
}

func (h hclGraph) graph() workflow.Graph {
	g := workflow.Graph{StartNode: h.StartNode, Nodes: make([]workflow.Node, 0, len(h.Nodes))}
	for _, n := range h.Nodes {
		g.Nodes = append(g.Nodes, workflow.Node{
			Name:         n.Name,
			Tool:         n.Tool,
			Next:         n.Next,
			ConditionKey: n.ConditionKey,
			NextIfTrue:   n.NextIfTrue,
			NextIfFalse:  n.NextIfFalse,
		})
	}
	return g
}

// LoadDir loads every supported file directly inside dir, in lexical order.
// Files with other extensions and subdirectories are skipped.
func LoadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("graphfile: read dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		g, err := Load(p)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: p, Graph: g})
	}
	return files, nil
}
