// Copyright (c) 2024 The digen Authors.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package digraph is a small arena-backed directed graph with stable
// integer handles, plus the cycle-detection primitive the binding graph
// builder and validator share. It knows nothing about bindings or keys;
// callers attach their own payload to each node via Wrapped.
package digraph

import "github.com/pkg/errors"

// Handle is a stable integer reference to a node. Handle 0 is always the
// sentinel node; real nodes start at 1, so a zero-value Handle reliably
// means "no such node" wherever handles are looked up in a map.
type Handle int

// EdgeKind lets callers tag an edge with caller-defined metadata (digen
// tags edges with the request kind that traversed them) without the
// graph needing to know what that metadata means.
type EdgeKind int

type edge struct {
	to   Handle
	kind EdgeKind
}

type node struct {
	wrapped interface{}
	edges   []edge
}

// Graph is an arena of nodes addressed by Handle, with labeled directed
// edges between them. It is the reusable substrate for
// graph.BindingGraph: a BindingGraph is a Graph whose node payloads are
// *bind.Binding values and whose edge kinds are key.RequestKind values.
type Graph struct {
	nodes []node
}

// New returns an empty Graph, pre-seeded with the handle-0 sentinel so
// that a zero Handle from an uninitialized map lookup can never alias a
// real node.
func New() *Graph {
	return &Graph{nodes: []node{{}}}
}

// AddNode adds wrapped as a new node and returns its handle.
func (g *Graph) AddNode(wrapped interface{}) Handle {
	g.nodes = append(g.nodes, node{wrapped: wrapped})
	return Handle(len(g.nodes) - 1)
}

// AddEdge records a directed edge from -> to, tagged with kind.
func (g *Graph) AddEdge(from, to Handle, kind EdgeKind) {
	g.nodes[from].edges = append(g.nodes[from].edges, edge{to: to, kind: kind})
}

// Lookup returns the payload stored at h. Lookup panics if h is out of
// range, mirroring the teacher's graphHolder.Lookup contract: an invalid
// handle here means the caller built it wrong, not that the data is
// merely absent.
func (g *Graph) Lookup(h Handle) interface{} {
	return g.nodes[h].wrapped
}

// Order returns the number of nodes in the graph, including the sentinel.
func (g *Graph) Order() int {
	return len(g.nodes)
}

// Edges returns the (target, kind) pairs for every edge leaving h.
func (g *Graph) Edges(h Handle) []struct {
	To   Handle
	Kind EdgeKind
} {
	es := g.nodes[h].edges
	out := make([]struct {
		To   Handle
		Kind EdgeKind
	}, len(es))
	for i, e := range es {
		out[i] = struct {
			To   Handle
			Kind EdgeKind
		}{To: e.to, Kind: e.kind}
	}
	return out
}

// Cycle describes one detected cycle as the sequence of handles visited,
// starting and ending at the repeated node, together with the edge kinds
// traversed along it.
type Cycle struct {
	Path      []Handle
	EdgeKinds []EdgeKind
}

// breaksOn reports whether any edge kind along the cycle is in the given
// set of "breaking" kinds (request kinds whose indirection legitimizes an
// otherwise-fatal cycle).
func (c Cycle) breaksOn(breaking func(EdgeKind) bool) bool {
	for _, k := range c.EdgeKinds {
		if breaking(k) {
			return true
		}
	}
	return false
}

// FindCycle runs a DFS from every root and returns the first cycle
// encountered, or nil if the graph reachable from roots is acyclic. It
// mirrors the teacher's recursiveDetectCycles (container.go, cycle.go):
// a path slice tracks the current DFS stack, and a repeated handle on
// that stack is a cycle.
func FindCycle(g *Graph, roots []Handle) *Cycle {
	state := make([]int, len(g.nodes)) // 0=unvisited 1=on-stack 2=done
	var pathHandles []Handle
	var pathKinds []EdgeKind

	var visit func(h Handle) *Cycle
	visit = func(h Handle) *Cycle {
		state[h] = 1
		pathHandles = append(pathHandles, h)
		defer func() {
			pathHandles = pathHandles[:len(pathHandles)-1]
		}()

		for _, e := range g.nodes[h].edges {
			if state[e.to] == 1 {
				// Found the back-edge; slice the path from the repeated
				// node onward.
				start := 0
				for i, ph := range pathHandles {
					if ph == e.to {
						start = i
						break
					}
				}
				cyclePath := append(append([]Handle{}, pathHandles[start:]...), e.to)
				cycleKinds := append(append([]EdgeKind{}, pathKinds[start:]...), e.kind)
				return &Cycle{Path: cyclePath, EdgeKinds: cycleKinds}
			}
			if state[e.to] == 2 {
				continue
			}
			pathKinds = append(pathKinds, e.kind)
			if c := visit(e.to); c != nil {
				return c
			}
			pathKinds = pathKinds[:len(pathKinds)-1]
		}

		state[h] = 2
		return nil
	}

	for _, r := range roots {
		if state[r] == 0 {
			if c := visit(r); c != nil {
				return c
			}
		}
	}
	return nil
}

// ErrNoSuchHandle is returned by callers (not by this package, which
// panics on bad handles the way the teacher's graphHolder does) when
// translating a missing lookup into a recoverable error instead of a
// panic makes more sense for that caller.
var ErrNoSuchHandle = errors.New("digraph: no such handle")
