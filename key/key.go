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

// Package key gives every requested dependency a single canonical identity
// used across the whole pipeline: the binding graph, the validator, the
// representation selector, and the emitter all key their maps by key.Key.
package key

import (
	"fmt"

	"github.com/go-digen/digen/frontend"
)

// Key is the canonical identity of a requested dependency: a type, an
// optional qualifier, and an optional multibinding-slot tag. Two Keys are
// equal iff all three components are equal; Keys have no lifecycle beyond
// the compilation unit that produced them.
type Key struct {
	typ       frontend.TypeRef
	qualifier frontend.Qualifier
	slot      string
}

// Option customizes a Key built by New.
type Option func(*Key)

// WithQualifier attaches a qualifier annotation to the key.
func WithQualifier(q frontend.Qualifier) Option {
	return func(k *Key) { k.qualifier = q }
}

// WithMultibindingSlot tags the key as one contribution to a multibinding,
// identified by slot (e.g. the map key literal, or a synthetic per-element
// tag for a set contribution whose element has no natural identity).
func WithMultibindingSlot(slot string) Option {
	return func(k *Key) { k.slot = slot }
}

// New builds a Key from a declared type and options.
func New(t frontend.TypeRef, opts ...Option) Key {
	k := Key{typ: t}
	for _, opt := range opts {
		opt(&k)
	}
	return k
}

// Type returns the key's declared type.
func (k Key) Type() frontend.TypeRef { return k.typ }

// Qualifier returns the key's qualifier, or nil if unqualified.
func (k Key) Qualifier() frontend.Qualifier { return k.qualifier }

// MultibindingSlot returns the key's multibinding-slot tag, or "" if the
// key does not identify a single contribution to a multibinding.
func (k Key) MultibindingSlot() string { return k.slot }

// Equal reports whether k and other identify the same dependency.
func (k Key) Equal(other Key) bool {
	if k.typ.Identity() != other.typ.Identity() {
		return false
	}
	if k.slot != other.slot {
		return false
	}
	return qualifierIdentity(k.qualifier) == qualifierIdentity(other.qualifier)
}

func qualifierIdentity(q frontend.Qualifier) string {
	if q == nil {
		return ""
	}
	return q.Identity()
}

// comparable is the map-safe projection of a Key, returned by Comparable.
// Keys embed interface values (frontend.TypeRef, frontend.Qualifier) that
// are not guaranteed to be comparable with ==, so every map keyed by
// dependency identity in this module is keyed by this string form rather
// than by Key itself.
func (k Key) comparable() string {
	return k.typ.Identity() + "\x00" + qualifierIdentity(k.qualifier) + "\x00" + k.slot
}

// Comparable returns a map-safe string uniquely identifying this Key. Two
// Keys produce the same Comparable value iff Equal reports true for them.
func (k Key) Comparable() string { return k.comparable() }

// String renders the key the way diagnostics and generated-code comments
// show it: "Type[qualifier=...][slot=...]", omitting empty components.
func (k Key) String() string {
	s := k.typ.String()
	if k.qualifier != nil {
		s = fmt.Sprintf("%s[qualifier=%s]", s, k.qualifier)
	}
	if k.slot != "" {
		s = fmt.Sprintf("%s[slot=%s]", s, k.slot)
	}
	return s
}

// RequestKind is the closed set of ways a dependency may be requested by a
// consumer: plain instance, a factory callable on demand, a memoized
// handle, and the asynchronous production variants.
type RequestKind int

const (
	// INSTANCE requests the value itself, built fresh or fetched from
	// cache depending on scope.
	INSTANCE RequestKind = iota
	// PROVIDER requests a factory callable invoked on demand.
	PROVIDER
	// LAZY requests a memoized-on-first-call handle.
	LAZY
	// PROVIDER_OF_LAZY requests a factory that produces Lazy handles.
	PROVIDER_OF_LAZY
	// MEMBERS_INJECTOR requests a handle that injects members into an
	// existing instance rather than constructing one.
	MEMBERS_INJECTOR
	// PRODUCER requests an asynchronous factory.
	PRODUCER
	// PRODUCED requests the asynchronous result wrapper of a value.
	PRODUCED
	// FUTURE requests an asynchronous value eagerly kicked off now.
	FUTURE
)

func (rk RequestKind) String() string {
	switch rk {
	case INSTANCE:
		return "INSTANCE"
	case PROVIDER:
		return "PROVIDER"
	case LAZY:
		return "LAZY"
	case PROVIDER_OF_LAZY:
		return "PROVIDER_OF_LAZY"
	case MEMBERS_INJECTOR:
		return "MEMBERS_INJECTOR"
	case PRODUCER:
		return "PRODUCER"
	case PRODUCED:
		return "PRODUCED"
	case FUTURE:
		return "FUTURE"
	default:
		return fmt.Sprintf("RequestKind(%d)", int(rk))
	}
}

// Framework reports whether this request kind always needs a
// framework (provider-like) expression rather than a direct instance
// expression, independent of the binding's caching needs.
func (rk RequestKind) Framework() bool {
	switch rk {
	case PROVIDER, LAZY, PROVIDER_OF_LAZY, PRODUCER, PRODUCED, MEMBERS_INJECTOR:
		return true
	default:
		return false
	}
}

// Scope is an optional named caching token. The distinguished Reusable
// scope permits weaker caching (single-check, no cross-thread publication
// guarantee); every other named scope requires double-check semantics.
type Scope struct {
	name     string
	reusable bool
	scoped   bool
}

// Unscoped is the zero Scope: a fresh instance is produced per request.
var Unscoped = Scope{}

// Reusable is the distinguished scope permitting single-check caching.
var Reusable = Scope{name: "Reusable", reusable: true, scoped: true}

// Named constructs a strongly-cached scope with the given declared name.
func Named(name string) Scope {
	return Scope{name: name, scoped: true}
}

// IsUnscoped reports whether s is the zero, unscoped value.
func (s Scope) IsUnscoped() bool { return !s.scoped }

// IsReusable reports whether s is the distinguished Reusable scope.
func (s Scope) IsReusable() bool { return s.reusable }

// Name returns the scope's declared name, or "" for Unscoped.
func (s Scope) Name() string { return s.name }

// Equal reports whether s and other name the same scope.
func (s Scope) Equal(other Scope) bool {
	return s.scoped == other.scoped && s.reusable == other.reusable && s.name == other.name
}

// Stronger reports whether s requires strictly stronger caching than
// other: Unscoped < Reusable < any named scope, and distinct named scopes
// are considered incomparable (neither is Stronger than the other) since
// the validator, not the scope model, is responsible for rejecting
// mismatched named scopes.
func (s Scope) Stronger(other Scope) bool {
	rank := func(sc Scope) int {
		switch {
		case !sc.scoped:
			return 0
		case sc.reusable:
			return 1
		default:
			return 2
		}
	}
	sr, or := rank(s), rank(other)
	if sr != or {
		return sr > or
	}
	return false
}

func (s Scope) String() string {
	if !s.scoped {
		return "Unscoped"
	}
	return s.name
}
