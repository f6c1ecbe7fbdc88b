// Package graph provides a small directed acyclic graph whose edges keep
// the order in which they were added to each target node.
//
// Nodes carry a typed value and are addressed by unique string IDs. The
// graph is safe for concurrent use: reads take a shared lock, mutations an
// exclusive one.
//
// Errors:
//
//	ErrEmptyNodeID    - node ID is the empty string.
//	ErrDuplicateNode  - a node with the same ID already exists.
//	ErrNodeNotFound   - an operation referenced a missing node.
//	ErrCycleDetected  - TopologicalSort found a back-edge.
package graph

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors for graph operations.
var (
	ErrEmptyNodeID   = errors.New("graph: node ID is empty")
	ErrDuplicateNode = errors.New("graph: duplicate node")
	ErrNodeNotFound  = errors.New("graph: node not found")
	ErrCycleDetected = errors.New("graph: cycle detected")
)

// Graph is a directed graph of nodes holding values of type T.
type Graph[T any] struct {
	mu      sync.RWMutex
	order   []string            // insertion order
	values  map[string]T        // node values
	inputs  map[string][]string // ordered predecessors
	outputs map[string][]string // successors in edge order
}

// New returns an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		values:  make(map[string]T),
		inputs:  make(map[string][]string),
		outputs: make(map[string][]string),
	}
}

// AddNode inserts a node.
// Returns ErrEmptyNodeID or ErrDuplicateNode.
// Complexity: O(1) amortized.
func (g *Graph[T]) AddNode(id string, v T) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.values[id]; ok {
		return fmt.Errorf("AddNode %q: %w", id, ErrDuplicateNode)
	}
	g.values[id] = v
	g.order = append(g.order, id)

	return nil
}

// AddEdge adds from→to. The edge becomes the last input of to.
// Returns ErrNodeNotFound when either endpoint is missing.
// Complexity: O(1) amortized.
func (g *Graph[T]) AddEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range []string{from, to} {
		if _, ok := g.values[id]; !ok {
			return fmt.Errorf("AddEdge %q→%q: %q: %w", from, to, id, ErrNodeNotFound)
		}
	}
	g.inputs[to] = append(g.inputs[to], from)
	g.outputs[from] = append(g.outputs[from], to)

	return nil
}

// Node returns the value stored at id.
func (g *Graph[T]) Node(id string) (T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.values[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("Node %q: %w", id, ErrNodeNotFound)
	}

	return v, nil
}

// Inputs returns a copy of id's predecessors in edge order.
func (g *Graph[T]) Inputs(id string) ([]string, error) {
	return g.adjacent(id, g.inputs)
}

// Outputs returns a copy of id's successors in edge order.
func (g *Graph[T]) Outputs(id string) ([]string, error) {
	return g.adjacent(id, g.outputs)
}

func (g *Graph[T]) adjacent(id string, m map[string][]string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.values[id]; !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNodeNotFound)
	}
	out := make([]string, len(m[id]))
	copy(out, m[id])

	return out, nil
}

// Nodes returns node IDs in insertion order.
func (g *Graph[T]) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, len(g.order))
	copy(out, g.order)

	return out
}

// Len returns the number of nodes.
func (g *Graph[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.order)
}

// EdgeCount returns the number of edges.
func (g *Graph[T]) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := 0
	for _, in := range g.inputs {
		n += len(in)
	}

	return n
}
