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

// Package supply picks, for a binding that repr.Select has decided
// needs a Framework representation, which of the three mutually
// exclusive strategies produces that framework instance: a reference
// to a pre-generated static factory, a component field holding a
// provider (optionally memoized), or a switching-provider dispatcher
// entry in fast-init mode. The selection rules are grounded in the
// teacher's three-tier provider resolution (Scope.getValueProviders,
// Scope.getAllProviders, Scope.getGroupProviders in scope.go), reframed
// from "which scope owns this provider" to "which code shape supplies
// this provider".
package supply

import (
	"github.com/go-digen/digen/bind"
)

// Strategy is the closed set of supplier shapes the emitter can choose
// between for one binding.
type Strategy int

const (
	// StaticFactory references a pre-generated static create()-shaped
	// factory directly; no component field is required.
	StaticFactory Strategy = iota
	// ProviderField emits a component field of the provider type,
	// initialized during the component's initialize sequence.
	ProviderField
	// SwitchingProvider routes through the component's single
	// dispatcher type, keyed by a stably assigned integer id.
	SwitchingProvider
)

func (s Strategy) String() string {
	switch s {
	case StaticFactory:
		return "STATIC_FACTORY"
	case ProviderField:
		return "PROVIDER_FIELD"
	case SwitchingProvider:
		return "SWITCHING_PROVIDER"
	default:
		return "UNKNOWN_STRATEGY"
	}
}

// Memoization is the caching wrapper, if any, the chosen strategy's
// expression must be composed with.
type Memoization int

const (
	// NoMemoization means the strategy's expression already returns the
	// right value with no further wrapping.
	NoMemoization Memoization = iota
	// SingleCheckMemo wraps the expression in a SingleCheck (Reusable
	// scope).
	SingleCheckMemo
	// DoubleCheckMemo wraps the expression in a DoubleCheck (any named,
	// strongly-cached scope).
	DoubleCheckMemo
)

// Inputs are the facts supply.Choose needs beyond the binding itself:
// whether a pre-generated static factory shape exists for this
// binding's Kind, whether the binding captures any per-component
// dependency that a static factory cannot close over, and whether the
// driver is running in fast-init mode.
type Inputs struct {
	HasStaticFactoryShape bool
	HasCapturedDependency bool
	FastInit              bool
}

// neverSwitched is the closed set of binding kinds the switching-
// provider dispatcher must never hold, per spec.md §4.5: these either
// have no factory to switch on (COMPONENT, COMPONENT_DEPENDENCY,
// BOUND_INSTANCE are supplied directly from fields the component
// constructor already populates), or they alias another binding's
// supplier rather than owning one (DELEGATE), or they never produce an
// instance at all (MEMBERS_INJECTOR).
func neverSwitched(k bind.Kind) bool {
	switch k {
	case bind.Component, bind.ComponentDependency, bind.BoundInstance,
		bind.Delegate, bind.MembersInjector:
		return true
	default:
		return false
	}
}

// Choose selects the supplier strategy for b and the memoization, if
// any, it must be wrapped in. b is assumed to already need a Framework
// representation (repr.Select returned repr.Framework); Choose does not
// re-derive that decision.
func Choose(b *bind.Binding, in Inputs) (Strategy, Memoization) {
	strategy := chooseStrategy(b, in)
	return strategy, chooseMemoization(b)
}

func chooseStrategy(b *bind.Binding, in Inputs) Strategy {
	if in.FastInit && !neverSwitched(b.Kind) {
		if isZeroDependencySynthetic(b) {
			// A zero-dependency multibinding/optional is a singleton
			// empty factory; there is nothing to dispatch on, so
			// fast-init still emits (or reuses) a static factory for it.
			return StaticFactory
		}
		return SwitchingProvider
	}

	if in.HasStaticFactoryShape && !in.HasCapturedDependency {
		return StaticFactory
	}

	return ProviderField
}

// isZeroDependencySynthetic reports whether b is one of the
// MULTIBOUND_SET/MULTIBOUND_MAP/OPTIONAL kinds with no dependencies, the
// one exception spec.md §4.5 carves out of fast-init's otherwise
// universal switching-provider coverage for non-exempt kinds.
func isZeroDependencySynthetic(b *bind.Binding) bool {
	if b.Kind != bind.MultiboundSet && b.Kind != bind.MultiboundMap && b.Kind != bind.Optional {
		return false
	}
	return len(b.Dependencies) == 0
}

// chooseMemoization reports the caching wrapper a scoped binding's
// chosen strategy must compose with: a named scope (anything that
// isn't Unscoped or the distinguished Reusable scope) needs
// publication-safe double-check; Reusable needs only single-check;
// Unscoped needs none.
func chooseMemoization(b *bind.Binding) Memoization {
	switch {
	case !b.HasScope():
		return NoMemoization
	case b.Scope.IsReusable():
		return SingleCheckMemo
	default:
		return DoubleCheckMemo
	}
}
