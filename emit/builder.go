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

// Package emit aggregates per-binding representation and supplier
// decisions into one component implementation plan: the deduplicated
// field set, its topological initialization order, the module
// constructor proxies the component needs, and the exposed entry-point
// methods. It hands back that plan as an Implementation value; it never
// formats or writes text itself, matching the abstract-source-tree
// boundary frontend.SourceWriter sits behind.
package emit

import (
	"fmt"

	"github.com/go-digen/digen/bind"
	"github.com/go-digen/digen/diag"
	"github.com/go-digen/digen/frontend"
	"github.com/go-digen/digen/graph"
	"github.com/go-digen/digen/key"
	"github.com/go-digen/digen/repr"
	"github.com/go-digen/digen/supply"
)

// FieldCategory distinguishes the two shapes a binding's framework
// field can take; a binding requested both ways needs two fields, not
// one, since a Lazy handle and a Provider callable are different types.
type FieldCategory int

const (
	// ProviderFieldCategory backs PROVIDER/INSTANCE-needing-caching
	// requests: a field of the provider type.
	ProviderFieldCategory FieldCategory = iota
	// LazyFieldCategory backs LAZY/PROVIDER_OF_LAZY requests: a field of
	// the lazy-handle type.
	LazyFieldCategory
)

// Field is one deduplicated component field: at most one Field exists
// per (Binding.Key, FieldCategory) pair, shared by every call site that
// needs it.
type Field struct {
	Key          key.Key
	Category     FieldCategory
	Strategy     supply.Strategy
	Memoization  supply.Memoization
	Dependencies []key.Key // other fields this one's initializer reads
}

// Name is the field's generated identifier, stable across regenerations
// because it is derived purely from the key's comparable form.
func (f Field) Name() string {
	prefix := "provider"
	if f.Category == LazyFieldCategory {
		prefix = "lazy"
	}
	return fmt.Sprintf("%s_%x", prefix, hash(f.Key.Comparable()))
}

// hash is a small FNV-1a style hash kept local to this package so field
// names are deterministic without pulling in a hashing dependency for a
// purely cosmetic identifier.
func hash(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// ModuleProxy is one module constructor proxy the component must emit,
// per spec.md §4.6: ModuleType is not accessible from the component's
// implementation package, so the generated code goes through
// ModuleProxyName(ModuleType)'s static newInstance() instead of calling
// the constructor directly. DecideModuleProxies decides this from type
// accessibility alone; whether the module holds an implicit
// enclosing-instance reference is not examined.
type ModuleProxy struct {
	ModuleType frontend.TypeRef
}

// EntryPointMethod is one exposed accessor on the component's public
// surface, resolved down to the representation and (if Framework) the
// field it delegates to.
type EntryPointMethod struct {
	Method         frontend.Element
	Key            key.Key
	Request        key.RequestKind
	Representation repr.Representation
	Field          *Field // set iff Representation == repr.Framework
	// Cast reports whether the return site needs an unchecked cast
	// because the accessible supertype of Key differs from the
	// provider's value type and that value type is not itself
	// accessible (spec.md §4.7's cast policy).
	Cast bool
}

// Implementation is the complete plan for one component's generated
// implementation type.
type Implementation struct {
	Name          string
	Fields        []Field
	InitOrder     []key.Key // Fields, ordered so each one's Dependencies precede it
	ModuleProxies []ModuleProxy
	EntryPoints   []EntryPointMethod
}

// Builder accumulates field/method contributions for one component
// before producing the final Implementation. Internal contract
// violations (an entry point whose key the validator should already
// have rejected as unresolved) are reported through diag.Assertf, which
// the driver recovers at the per-component boundary; Builder itself
// carries no report reference.
type Builder struct {
	name   string
	fields map[string]*Field // keyed by Key.Comparable()+category
	order  []string          // insertion order of the fields map's keys, for topo-sort input stability
}

// NewBuilder returns a Builder for a component whose generated
// implementation type will be named implName (see ComponentImplName).
func NewBuilder(implName string) *Builder {
	return &Builder{name: implName, fields: make(map[string]*Field)}
}

// fieldKeyFor is the Builder's internal map key: distinct from
// Key.Comparable() because the same binding key may need both a
// Provider field and a Lazy field simultaneously.
func fieldKeyFor(k key.Key, cat FieldCategory) string {
	return fmt.Sprintf("%d\x00%s", cat, k.Comparable())
}

// RequireField registers (or reuses) the field for (k, category),
// deduplicating so every call site requesting the same (key, category)
// pair shares one field, per spec.md §4.7's "at most one field per (key,
// request representation category)" invariant.
func (b *Builder) RequireField(k key.Key, category FieldCategory, strategy supply.Strategy, memo supply.Memoization, deps []key.Key) *Field {
	fk := fieldKeyFor(k, category)
	if existing, ok := b.fields[fk]; ok {
		return existing
	}
	f := &Field{Key: k, Category: category, Strategy: strategy, Memoization: memo, Dependencies: deps}
	b.fields[fk] = f
	b.order = append(b.order, fk)
	return f
}

// categoryFor maps a request kind to the field category its framework
// expression belongs to.
func categoryFor(rk key.RequestKind) FieldCategory {
	if rk == key.LAZY || rk == key.PROVIDER_OF_LAZY {
		return LazyFieldCategory
	}
	return ProviderFieldCategory
}

// AddEntryPoint resolves one exposed accessor method down to a
// representation (via repr.Select), a supplier strategy if needed (via
// supply.Choose), and the cast policy, registering whatever field the
// representation requires.
func (b *Builder) AddEntryPoint(bg *graph.BindingGraph, ep graph.EntryPoint, mode repr.Mode, in supply.Inputs, oracle frontend.TypeOracle, implPkg string) EntryPointMethod {
	binding, _, ok := bg.Lookup(ep.Key)
	if !ok {
		diag.Assertf(ep.Key, "entry point %s has no resolved binding; the validator should have rejected this component", ep.Key)
	}

	representation := repr.Select(binding, ep.Request, mode, bg)
	em := EntryPointMethod{Method: ep.Method, Key: ep.Key, Request: ep.Request, Representation: representation}

	if representation == repr.Framework {
		strategy, memo := supply.Choose(binding, in)
		deps := make([]key.Key, len(binding.Dependencies))
		for i, d := range binding.Dependencies {
			deps[i] = d.Key
		}
		em.Field = b.RequireField(ep.Key, categoryFor(ep.Request), strategy, memo, deps)
	}

	em.Cast = needsCast(bg, binding, oracle, implPkg)
	return em
}

// needsCast implements spec.md §4.7's cast policy: a cast is only
// inserted when the provider's value type is not accessible from
// implPkg and the accessible type it unwraps to is; otherwise the raw
// value flows uncast into whatever consumes it next.
func needsCast(bg *graph.BindingGraph, b *bind.Binding, oracle frontend.TypeOracle, implPkg string) bool {
	if oracle == nil {
		return false
	}
	valueType := resolveValueType(bg, b)
	if oracle.AccessibleFrom(valueType, implPkg) {
		return false
	}
	unwrapped, ok := oracle.Unwrap(valueType)
	if !ok {
		return false
	}
	return oracle.AccessibleFrom(unwrapped, implPkg)
}

// resolveValueType finds the type that actually backs b's value. A
// Delegate binding's own Key is, by definition, the accessible
// supertype it's bound as (spec.md §4.7 scenario 4) — the real value
// type lives at the end of its alias chain, so this walks Source
// bindings until it reaches one that isn't itself a Delegate. seen
// guards against a malformed cyclic alias chain, which the graph
// builder's own cycle check should already have rejected.
func resolveValueType(bg *graph.BindingGraph, b *bind.Binding) frontend.TypeRef {
	seen := make(map[string]bool)
	for b.Kind == bind.Delegate {
		payload, ok := b.Payload.(*bind.DelegatePayload)
		if !ok || bg == nil {
			break
		}
		ck := payload.Source.Comparable()
		if seen[ck] {
			break
		}
		seen[ck] = true

		target, _, ok := bg.Lookup(payload.Source)
		if !ok {
			target, ok = bg.LookupInherited(payload.Source)
			if !ok {
				break
			}
		}
		b = target
	}
	return b.Key.Type()
}

// DecideModuleProxies computes, for every distinct module referenced by
// a non-static Provision/Production binding reachable in bg, whether
// that module needs a generated constructor proxy: a module needs one
// iff its constructor is not accessible from implPkg, per spec.md
// §4.6's "a pure function of module visibility x requester package".
// A module whose provision methods are all static needs no instance,
// and therefore no proxy, regardless of the module type's own
// accessibility. Each distinct module (keyed by TypeRef.Identity)
// appears at most once, in first-encountered order.
func DecideModuleProxies(bg *graph.BindingGraph, oracle frontend.TypeOracle, implPkg string) []ModuleProxy {
	if oracle == nil {
		return nil
	}

	var proxies []ModuleProxy
	seen := make(map[string]bool)
	for _, b := range bg.Bindings() {
		if b.Kind != bind.Provision && b.Kind != bind.Production {
			continue
		}
		payload, ok := b.Payload.(*bind.ProvisionPayload)
		if !ok || payload.IsStatic || payload.Module == nil {
			continue
		}

		id := payload.Module.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true

		if !oracle.AccessibleFrom(payload.Module, implPkg) {
			proxies = append(proxies, ModuleProxy{ModuleType: payload.Module})
		}
	}
	return proxies
}

// Build topologically orders the accumulated fields by their
// Dependencies and returns the finished Implementation. A field whose
// dependency is itself a framework field (not merely a direct-instance
// dependency never registered as a field) is initialized after that
// dependency; a cycle among fields is legal only because such a cycle
// can only arise through a Lazy/Provider edge (the binding graph's own
// cycle check already enforces this). Such a cycle does not stop the
// ordering: topoSort ignores the edge that closes it, so every field
// still appears in InitOrder and one field of the cycle precedes a
// field it depends on.
func (b *Builder) Build(proxies []ModuleProxy, entryPoints []EntryPointMethod) Implementation {
	fields := make([]Field, 0, len(b.order))
	for _, fk := range b.order {
		fields = append(fields, *b.fields[fk])
	}

	initOrder := topoSort(fields)

	return Implementation{
		Name:          b.name,
		Fields:        fields,
		InitOrder:     initOrder,
		ModuleProxies: proxies,
		EntryPoints:   entryPoints,
	}
}

// topoSort orders fields so each field's Dependencies precede it,
// using a field's own Key as the vertex identity. Dependencies on keys
// that never became fields (direct-instance dependencies) are ignored.
// The sort is a depth-first walk in input order; a dependency that is
// already on the walk's stack (a cycle) is skipped instead of failing,
// so each field of a cycle is placed once its other dependencies are.
func topoSort(fields []Field) []key.Key {
	byKey := make(map[string]Field, len(fields))
	for _, f := range fields {
		byKey[f.Key.Comparable()] = f
	}

	visited := make(map[string]bool, len(fields))
	inProgress := make(map[string]bool, len(fields))
	var order []key.Key

	var visit func(f Field)
	visit = func(f Field) {
		ck := f.Key.Comparable()
		if visited[ck] || inProgress[ck] {
			return
		}
		inProgress[ck] = true
		for _, depKey := range f.Dependencies {
			if depField, ok := byKey[depKey.Comparable()]; ok {
				visit(depField)
			}
		}
		inProgress[ck] = false
		visited[ck] = true
		order = append(order, f.Key)
	}

	for _, f := range fields {
		visit(f)
	}
	return order
}
