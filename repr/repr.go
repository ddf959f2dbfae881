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

// Package repr picks, for a single (binding, request kind) pair, whether
// the emitter inlines construction at the usage site or goes through a
// provider-like handle. Named repr rather than select because select is
// a reserved word; the role it plays is the pure decision function the
// teacher's param/result pair (param.go, result.go) leaves implicit in
// how a paramSingle or resultSingle chooses to read from the container.
package repr

import (
	"github.com/go-digen/digen/bind"
	"github.com/go-digen/digen/graph"
	"github.com/go-digen/digen/key"
)

// Mode carries the driver knobs that affect representation selection.
// Only FastInit does today; the remaining knobs in config.Config affect
// formatting, not representation choice (SPEC_FULL.md §6).
type Mode struct {
	FastInit bool
}

// Representation is the outcome of Select: either the binding is
// constructed inline at the usage site (Direct), or the usage site
// reads through a provider-like handle the supplier stage is
// responsible for producing (Framework).
type Representation int

const (
	// Direct inlines construction/invocation at the usage site.
	Direct Representation = iota
	// Framework obtains the value via a provider-like handle.
	Framework
)

func (r Representation) String() string {
	if r == Direct {
		return "DIRECT"
	}
	return "FRAMEWORK"
}

// Select implements spec.md §4.4 exactly: every request kind other than
// INSTANCE and FUTURE gets a Framework representation; an INSTANCE or
// FUTURE request is Direct unless the binding is MEMBERS_INJECTOR or
// ASSISTED_FACTORY (which never expose a
// direct instance expression, since there's no instance to directly
// construct), or unless it needsCaching and isn't exempted by the
// fast-init ASSISTED_INJECTION carve-out. bg resolves a DELEGATE
// binding's target for the needsCaching comparison; it may be nil if b
// is known not to be a DELEGATE.
func Select(b *bind.Binding, rk key.RequestKind, mode Mode, bg *graph.BindingGraph) Representation {
	if rk == key.PROVIDER || rk == key.LAZY || rk == key.PRODUCER {
		return Framework
	}
	if rk != key.INSTANCE && rk != key.FUTURE {
		// PROVIDER_OF_LAZY, PRODUCED, and MEMBERS_INJECTOR requests are
		// all framework handles by construction (RequestKind.Framework
		// agrees for all three; the binding-kind check below separately
		// covers a MEMBERS_INJECTOR binding requested as INSTANCE).
		return Framework
	}
	if b.Kind == bind.MembersInjector || b.Kind == bind.AssistedFactory {
		return Framework
	}
	if b.Kind == bind.AssistedInjection && mode.FastInit {
		return Direct
	}
	if needsCaching(b, bg) {
		return Framework
	}
	return Direct
}

// needsCaching reports whether b's value must be retrievable through a
// memoizing handle rather than freshly constructed every time: true iff
// b has a scope, except a DELEGATE binding whose own scope is no
// stronger than the scope of the key it aliases — aliasing adds no
// caching obligation beyond what its target already guarantees.
func needsCaching(b *bind.Binding, bg *graph.BindingGraph) bool {
	if !b.HasScope() {
		return false
	}
	if b.Kind != bind.Delegate {
		return true
	}
	payload, ok := b.Payload.(*bind.DelegatePayload)
	if !ok || bg == nil {
		return true
	}
	target, _, ok := bg.Lookup(payload.Source)
	if !ok {
		target, ok = bg.LookupInherited(payload.Source)
		if !ok {
			return true
		}
	}
	return b.Scope.Stronger(target.Scope)
}
