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

// Package graph builds and holds the rooted DAG of bindings reachable
// from one component's entry points. It is grounded in the teacher's
// graphHolder (graph.go) and the Scope/provider bookkeeping in
// scope.go, generalized from "runtime container state" to "resolved
// compile-time binding set".
package graph

import (
	"github.com/go-digen/digen/bind"
	"github.com/go-digen/digen/internal/digraph"
	"github.com/go-digen/digen/key"
)

// BindingGraph is a rooted DAG of bind.Binding nodes for one component.
// Subgraphs for subcomponents are separate BindingGraph values linked by
// Parent; a child's resolution falls back to its parent's exported
// bindings exactly as the builder's priority order describes.
type BindingGraph struct {
	component string
	parent    *BindingGraph
	g         *digraph.Graph
	handles   map[string]digraph.Handle
	roots     []digraph.Handle
}

// Component returns the name of the component this graph was built for.
func (bg *BindingGraph) Component() string { return bg.component }

// Parent returns the ancestor component's graph, or nil for a root
// component.
func (bg *BindingGraph) Parent() *BindingGraph { return bg.parent }

// Lookup returns the binding resolved for k within this graph (not
// searching ancestors), if any.
func (bg *BindingGraph) Lookup(k key.Key) (*bind.Binding, digraph.Handle, bool) {
	h, ok := bg.handles[k.Comparable()]
	if !ok {
		return nil, 0, false
	}
	return bg.g.Lookup(h).(*bind.Binding), h, true
}

// LookupInherited searches this graph and then every ancestor, in order,
// returning the nearest match. This is how a subcomponent sees bindings
// exported by its ancestors.
func (bg *BindingGraph) LookupInherited(k key.Key) (*bind.Binding, bool) {
	for g := bg; g != nil; g = g.parent {
		if b, _, ok := g.Lookup(k); ok {
			return b, true
		}
	}
	return nil, false
}

// Roots returns the handles of every entry-point binding.
func (bg *BindingGraph) Roots() []digraph.Handle { return bg.roots }

// Bindings returns every binding registered in this graph (not
// ancestors), in the order they were added.
func (bg *BindingGraph) Bindings() []*bind.Binding {
	out := make([]*bind.Binding, 0, len(bg.handles))
	// digraph.Graph assigns handles monotonically starting at 1; walking
	// in handle order reproduces declaration-resolution order, which is
	// what determinism (SPEC_FULL.md §11) requires downstream.
	byHandle := make(map[digraph.Handle]*bind.Binding, len(bg.handles))
	for _, h := range bg.handles {
		byHandle[h] = bg.g.Lookup(h).(*bind.Binding)
	}
	for h := digraph.Handle(1); int(h) < bg.g.Order(); h++ {
		if b, ok := byHandle[h]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Raw exposes the underlying arena graph for the validator and the
// cycle-detection pass. Only this package constructs BindingGraph
// values, so the arena's node payloads are guaranteed to be
// *bind.Binding.
func (bg *BindingGraph) Raw() *digraph.Graph { return bg.g }

// DependencyCycle is a fatal or legal cycle found by FindCycle, already
// translated from arena handles to bindings.
type DependencyCycle struct {
	Path []*bind.Binding
	Legal bool
}

// FindCycle runs cycle detection restricted to reachability from the
// graph's roots and reports the first cycle found, translated to
// bindings. A cycle is Legal iff at least one edge it traverses carries
// a non-INSTANCE request kind, per spec.md §4.2's cycle-legality rule.
func (bg *BindingGraph) FindCycle() *DependencyCycle {
	c := digraph.FindCycle(bg.g, bg.roots)
	if c == nil {
		return nil
	}
	path := make([]*bind.Binding, len(c.Path))
	for i, h := range c.Path {
		path[i] = bg.g.Lookup(h).(*bind.Binding)
	}
	legal := c.EdgeKinds != nil && func() bool {
		for _, k := range c.EdgeKinds {
			if key.RequestKind(k) != key.INSTANCE {
				return true
			}
		}
		return false
	}()
	return &DependencyCycle{Path: path, Legal: legal}
}
