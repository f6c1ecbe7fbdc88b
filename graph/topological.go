package graph

import (
	"fmt"
)

// Visitation states.
const (
	white = iota
	gray
	black
)

// TopologicalSort orders all nodes so that every edge u→v has u before v.
// Roots are visited in insertion order and successors in edge order, so the
// result is deterministic.
// Returns ErrCycleDetected if the graph has a cycle.
// Complexity: O(V + E) time, O(V) memory.
func (g *Graph[T]) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := &sorter[T]{
		g:     g,
		state: make(map[string]int, len(g.order)),
		order: make([]string, 0, len(g.order)),
	}
	for i := len(g.order) - 1; i >= 0; i-- {
		if id := g.order[i]; s.state[id] == white {
			if err := s.visit(id); err != nil {
				return nil, err
			}
		}
	}
	// Reverse post-order.
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}

	return s.order, nil
}

type sorter[T any] struct {
	g     *Graph[T]
	state map[string]int
	order []string
}

func (s *sorter[T]) visit(id string) error {
	switch s.state[id] {
	case gray:
		return fmt.Errorf("TopologicalSort at %q: %w", id, ErrCycleDetected)
	case black:
		return nil
	}
	s.state[id] = gray

	out := s.g.outputs[id]
	for i := len(out) - 1; i >= 0; i-- {
		if err := s.visit(out[i]); err != nil {
			return err
		}
	}

	s.state[id] = black
	s.order = append(s.order, id)

	return nil
}
