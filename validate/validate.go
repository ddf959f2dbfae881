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

// Package validate runs the closed set of structural checks over an
// already-built BindingGraph before the emitter is allowed to touch it.
// Every check here is grounded in the teacher's verifyAcyclic/
// detectCycles pair (cycle.go) and the assorted errFoo types in
// error.go, generalized from "runtime container state" to "compile-time
// binding graph".
package validate

import (
	"github.com/go-digen/digen/bind"
	"github.com/go-digen/digen/diag"
	"github.com/go-digen/digen/frontend"
	"github.com/go-digen/digen/graph"
	"github.com/go-digen/digen/key"
)

// ComponentInfo carries the facts about a component that only its
// front-end declaration can supply: which scopes it declares (so
// SCOPE_NOT_ON_COMPONENT can fire), and whether it is a production
// component (so PRODUCTION_IN_NON_PRODUCTION_COMPONENT can fire).
type ComponentInfo struct {
	Name             string
	DeclaredScopes   []key.Scope
	IsProduction     bool
	Oracle           frontend.TypeOracle
	ExposedFromPkg   string // the package the component's public API is declared in
}

// Validate runs every check against bg and records failures on report.
// It never stops early: every applicable check runs so that a single
// invocation surfaces as many problems as exist, matching the teacher's
// habit of reporting one coherent error rather than failing fast on the
// first param that doesn't resolve.
func Validate(bg *graph.BindingGraph, info ComponentInfo, report *diag.Report) {
	checkCycles(bg, report)
	checkScopesDeclaredOnComponent(bg, info, report)
	checkAssistedUsage(bg, report)
	checkProductionOnlyBindings(bg, info, report)
	checkNullability(bg, report)
	checkMultibindingMapKeyCollisions(bg, report)
	checkExposureAccessibility(bg, info, report)
}

func checkCycles(bg *graph.BindingGraph, report *diag.Report) {
	cyc := bg.FindCycle()
	if cyc == nil || cyc.Legal {
		return
	}
	var names []string
	for _, b := range cyc.Path {
		names = append(names, b.Key.String())
	}
	report.Errorf(diag.DependencyCycle, cyc.Path[0].Key, cyc.Path[0].Element,
		"dependency cycle with no intervening Provider/Lazy indirection: %v", names)
}

// checkScopesDeclaredOnComponent enforces that every scoped binding's
// scope is one listed in info.DeclaredScopes; scopes declared only by
// an ancestor component are not consulted, so a scoped binding inherited
// from a parent graph is reported unless its scope is listed here too.
// Scoping a
// binding to a component nobody installed it on is a
// programmer error the teacher's container would only catch at
// first-call time, but compile-time generation can and must catch
// earlier.
func checkScopesDeclaredOnComponent(bg *graph.BindingGraph, info ComponentInfo, report *diag.Report) {
	declared := make(map[string]bool, len(info.DeclaredScopes))
	for _, s := range info.DeclaredScopes {
		declared[s.Name()] = true
	}
	for _, b := range bg.Bindings() {
		if !b.HasScope() || b.Scope.IsReusable() {
			continue // Reusable is always legal; it isn't a named strong scope
		}
		if !declared[b.Scope.Name()] {
			report.Errorf(diag.ScopeNotOnComponent, b.Key, b.Element,
				"%s is bound with scope %s, which component %s does not declare",
				b.Key, b.Scope, info.Name)
		}
	}
}

// checkAssistedUsage enforces that an AssistedInjection binding is only
// ever requested through an AssistedFactory binding, as PROVIDER or
// INSTANCE; a request from any other binding, or of any other kind
// (LAZY, for example), is rejected: an assisted binding has no way to
// manufacture the assisted parameters on its own, so such a request is
// a contradiction the annotation reader should never have let through
// but that the validator must still reject defensively.
func checkAssistedUsage(bg *graph.BindingGraph, report *diag.Report) {
	for _, b := range bg.Bindings() {
		if b.Kind != bind.AssistedInjection {
			continue
		}
		for _, dependent := range bg.Bindings() {
			for _, dep := range dependent.Dependencies {
				if !dep.Key.Equal(b.Key) {
					continue
				}
				viaFactory := dependent.Kind == bind.AssistedFactory
				if viaFactory && (dep.Request == key.PROVIDER || dep.Request == key.INSTANCE) {
					continue
				}
				report.Errorf(diag.IncompatibleAssistedUsage, b.Key, dependent.Element,
					"%s is assisted-injected and cannot be requested as %s by %s", b.Key, dep.Request, dependent.Key)
			}
		}
	}
}

// checkProductionOnlyBindings enforces that ProductionOnly binding
// kinds (Production and ComponentProduction) only appear in components
// declared IsProduction.
func checkProductionOnlyBindings(bg *graph.BindingGraph, info ComponentInfo, report *diag.Report) {
	if info.IsProduction {
		return
	}
	for _, b := range bg.Bindings() {
		if b.Kind.ProductionOnly() {
			report.Errorf(diag.ProductionInNonProductionComponent, b.Key, b.Element,
				"%s is a production binding (%s) but component %s is not a production component",
				b.Key, b.Kind, info.Name)
		}
	}
}

// checkNullability enforces that a binding whose ProvisionPayload is
// marked Nullable is never wired into a Dependency that forbids it.
func checkNullability(bg *graph.BindingGraph, report *diag.Report) {
	nullable := make(map[string]bool)
	for _, b := range bg.Bindings() {
		if p, ok := b.Payload.(*bind.ProvisionPayload); ok && p.Nullable {
			nullable[b.Key.Comparable()] = true
		}
	}
	for _, b := range bg.Bindings() {
		for _, dep := range b.Dependencies {
			if dep.Nullable {
				continue
			}
			if nullable[dep.Key.Comparable()] {
				report.Errorf(diag.NullableToNonNullable, dep.Key, b.Element,
					"%s may be null but %s requires a non-null value", dep.Key, b.Key)
			}
		}
	}
}

// checkMultibindingMapKeyCollisions enforces that a MultiboundMap
// binding's MapKeys are pairwise distinct; a repeated key means two
// contributions would overwrite one another at runtime in an order
// the generator cannot make deterministic across recompiles.
func checkMultibindingMapKeyCollisions(bg *graph.BindingGraph, report *diag.Report) {
	for _, b := range bg.Bindings() {
		if b.Kind != bind.MultiboundMap {
			continue
		}
		p, ok := b.Payload.(*bind.MultibindingPayload)
		if !ok {
			continue
		}
		seen := make(map[string]key.Key, len(p.MapKeys))
		for i, mk := range p.MapKeys {
			if i >= len(p.Contributions) {
				break
			}
			if prior, dup := seen[mk]; dup {
				report.Errorf(diag.MultibindingMapKeyCollision, b.Key, b.Element,
					"map key %q is contributed by both %s and %s", mk, prior, p.Contributions[i])
				continue
			}
			seen[mk] = p.Contributions[i]
		}
	}
}

// checkExposureAccessibility enforces that every entry-point (root)
// binding resolves to a type the component's
// generated implementation package can actually name; an inaccessible
// type can still be used as a dependency (direct-instance
// construction never needs to write its name down), but it cannot be
// the declared return type of a public accessor method.
func checkExposureAccessibility(bg *graph.BindingGraph, info ComponentInfo, report *diag.Report) {
	if info.Oracle == nil {
		return
	}
	for _, h := range bg.Roots() {
		b, ok := bg.Raw().Lookup(h).(*bind.Binding)
		if !ok {
			continue
		}
		if !info.Oracle.AccessibleFrom(b.Key.Type(), info.ExposedFromPkg) {
			report.Errorf(diag.InaccessibleBindingExposure, b.Key, b.Element,
				"%s is exposed by component %s but its type is not accessible from %s",
				b.Key, info.Name, info.ExposedFromPkg)
		}
	}
}
