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

package graph

import (
	"fmt"

	"github.com/go-digen/digen/bind"
	"github.com/go-digen/digen/diag"
	"github.com/go-digen/digen/frontend"
	"github.com/go-digen/digen/internal/digraph"
	"github.com/go-digen/digen/key"
)

// EntryPoint is one root request derived from a component's exposed API
// surface (spec.md §3, BindingGraph.Roots).
type EntryPoint struct {
	Key     key.Key
	Request key.RequestKind
	Method  frontend.Element
}

// MultibindingSpec is the pre-collected set of contributions for one
// multibinding aggregate key, assembled by the annotation reader from
// every @IntoSet/@IntoMap-tagged provision sharing a group. The builder
// only aggregates; it never discovers contributions itself.
type MultibindingSpec struct {
	Key           key.Key
	Kind          bind.Kind // MultiboundSet or MultiboundMap
	Contributions []key.Key
	MapKeys       []string // parallel to Contributions; empty for MultiboundSet
}

// OptionalSpec says that key Aggregate is an Optional-synthesis
// candidate whose wrapped element is Inner; the builder resolves Inner
// the same way it resolves any other key and synthesizes a present or
// absent Optional binding depending on whether that resolution
// succeeds.
type OptionalSpec struct {
	Aggregate key.Key
	Inner     key.Key
}

// Declarations is everything the builder needs about one component to
// resolve its entry points: explicit bindings (by priority over
// constructor-injectables), constructor-injectable bindings, declared
// multibindings, declared Optional candidates, and the parent component's
// already-built graph, if any.
type Declarations struct {
	Component string

	// Explicit holds every module-declared Provision/Delegate/
	// BoundInstance/Component*/SubcomponentCreator/Production binding,
	// keyed by Binding.Key.Comparable(). More than one entry under the
	// same key is a DUPLICATE_BINDING unless every entry is a
	// structurally-equivalent Delegate.
	Explicit map[string][]*bind.Binding

	// Injectable holds every constructor-discovered Injection/
	// AssistedInjection/AssistedFactory/MembersInjector binding, keyed
	// the same way. Explicit bindings take priority over these.
	Injectable map[string]*bind.Binding

	Multibindings map[string]MultibindingSpec
	Optionals     map[string]OptionalSpec

	Parent *BindingGraph
}

// Builder runs the worklist-driven resolution algorithm of spec.md
// §4.2 over one component's Declarations.
type Builder struct {
	decls  Declarations
	report *diag.Report
}

// NewBuilder returns a Builder that will record unresolved-key and
// duplicate-binding diagnostics on report.
func NewBuilder(decls Declarations, report *diag.Report) *Builder {
	return &Builder{decls: decls, report: report}
}

// Build seeds the worklist with every entry point's key and resolves the
// transitive closure, producing a BindingGraph. Unresolved keys are
// reported as MISSING_BINDING and left out of the graph; callers should
// treat report.Fatal() as authoritative about whether emission may
// proceed, not the returned graph's completeness.
func (b *Builder) Build(entryPoints []EntryPoint) *BindingGraph {
	bg := &BindingGraph{
		component: b.decls.Component,
		parent:    b.decls.Parent,
		g:         digraph.New(),
		handles:   make(map[string]digraph.Handle),
	}

	type queued struct {
		k key.Key
	}
	var worklist []queued
	for _, ep := range entryPoints {
		worklist = append(worklist, queued{k: ep.Key})
	}

	// visiting guards against infinite worklist growth on an unresolved
	// cyclic request graph; actual cycle legality is decided later by
	// BindingGraph.FindCycle once every binding (and its edges) exists.
	visiting := make(map[string]bool)

	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]
		ck := item.k.Comparable()

		if _, ok := bg.handles[ck]; ok {
			continue // already resolved
		}
		if visiting[ck] {
			continue
		}
		visiting[ck] = true

		binding, ok := b.resolve(item.k, bg)
		if !ok {
			b.report.Errorf(diag.MissingBinding, item.k, nil,
				"no binding found for %s in component %s", item.k, b.decls.Component)
			continue
		}

		h := bg.g.AddNode(binding)
		bg.handles[ck] = h

		for _, dep := range binding.Dependencies {
			worklist = append(worklist, queued{k: dep.Key})
		}
	}

	// Second pass: every binding now has a handle (or was dropped as
	// unresolved), so edges can be wired.
	for ck, h := range bg.handles {
		_ = ck
		binding := bg.g.Lookup(h).(*bind.Binding)
		for _, dep := range binding.Dependencies {
			if depH, ok := bg.handles[dep.Key.Comparable()]; ok {
				bg.g.AddEdge(h, depH, digraph.EdgeKind(dep.Request))
			}
		}
	}

	for _, ep := range entryPoints {
		if h, ok := bg.handles[ep.Key.Comparable()]; ok {
			bg.roots = append(bg.roots, h)
		}
	}

	return bg
}

// resolve locates a binding source for k in the priority order of
// spec.md §4.2: (1) explicit module provision/bind, (2) constructor-
// injectable, (3) multibinding synthesis, (4) optional synthesis,
// (5) ancestor component's exported binding.
func (b *Builder) resolve(k key.Key, bg *BindingGraph) (*bind.Binding, bool) {
	ck := k.Comparable()

	if candidates, ok := b.decls.Explicit[ck]; ok && len(candidates) > 0 {
		return b.resolveExplicit(k, candidates)
	}

	if injectable, ok := b.decls.Injectable[ck]; ok {
		return injectable, true
	}

	if spec, ok := b.decls.Multibindings[ck]; ok {
		return b.synthesizeMultibinding(spec), true
	}

	if spec, ok := b.decls.Optionals[ck]; ok {
		return b.synthesizeOptional(spec, bg), true
	}

	if b.decls.Parent != nil {
		if parentBinding, ok := b.decls.Parent.LookupInherited(k); ok {
			return parentBinding, true
		}
	}

	return nil, false
}

// resolveExplicit applies the DUPLICATE_BINDING tie-break: more than one
// candidate is only legal when every candidate is a Delegate binding
// pointing at the same source key (structural equivalence for a
// Delegate is "same source key", since a Delegate carries no other
// payload).
func (b *Builder) resolveExplicit(k key.Key, candidates []*bind.Binding) (*bind.Binding, bool) {
	if len(candidates) == 1 {
		return candidates[0], true
	}

	first := candidates[0]
	allEquivalentDelegates := first.Kind == bind.Delegate
	if allEquivalentDelegates {
		firstPayload := first.Payload.(*bind.DelegatePayload)
		for _, c := range candidates[1:] {
			if c.Kind != bind.Delegate {
				allEquivalentDelegates = false
				break
			}
			p := c.Payload.(*bind.DelegatePayload)
			if !p.Source.Equal(firstPayload.Source) {
				allEquivalentDelegates = false
				break
			}
		}
	}

	if allEquivalentDelegates {
		return first, true
	}

	origins := make([]string, len(candidates))
	for i, c := range candidates {
		origins[i] = fmt.Sprintf("%v", c.Element)
	}
	b.report.Errorf(diag.DuplicateBinding, k, first.Element,
		"%s is bound by more than one module-declared binding: %v", k, origins)
	return first, true
}

func (b *Builder) synthesizeMultibinding(spec MultibindingSpec) *bind.Binding {
	deps := make([]bind.Dependency, len(spec.Contributions))
	for i, c := range spec.Contributions {
		deps[i] = bind.Dependency{Key: c, Request: key.INSTANCE}
	}
	return &bind.Binding{
		Key:          spec.Key,
		Kind:         spec.Kind,
		Dependencies: deps,
		Origin:       bind.OriginComponentProvided,
		Payload: &bind.MultibindingPayload{
			Contributions: spec.Contributions,
			MapKeys:       spec.MapKeys,
		},
	}
}

func (b *Builder) synthesizeOptional(spec OptionalSpec, bg *BindingGraph) *bind.Binding {
	_, innerPresent := b.resolve(spec.Inner, bg)
	binding := &bind.Binding{
		Key:    spec.Aggregate,
		Kind:   bind.Optional,
		Origin: bind.OriginComponentProvided,
	}
	if innerPresent {
		binding.Dependencies = []bind.Dependency{{Key: spec.Inner, Request: key.INSTANCE}}
	}
	return binding
}
