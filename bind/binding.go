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

package bind

import (
	"fmt"

	"github.com/go-digen/digen/frontend"
	"github.com/go-digen/digen/key"
)

// Dependency is one edge out of a Binding: a requested key, the request
// kind it's wanted as, and whether a missing/absent value is tolerated.
type Dependency struct {
	Key      key.Key
	Request  key.RequestKind
	Nullable bool
}

// Origin records where a Binding came from, for diagnostics and for the
// tie-break rules in the graph builder (explicit bindings win over
// constructor-injectables).
type Origin int

const (
	// OriginModule is an @Provides/@Binds method on a module.
	OriginModule Origin = iota
	// OriginInjectionSite is a constructor-discovered injectable type.
	OriginInjectionSite
	// OriginComponentProvided is a value the component itself supplies
	// (a bound instance, a component dependency, or a synthesized
	// binding such as a multibinding aggregate or an Optional).
	OriginComponentProvided
)

// Binding is the immutable recipe produced once, during graph build, that
// maps a Key to a construction strategy. Every field beyond Payload is
// common to all Kinds; Payload carries the kind-specific data.
type Binding struct {
	Key          key.Key
	Kind         Kind
	Scope        key.Scope
	Dependencies []Dependency

	// DeclaringPackage is the package that declared this binding (the
	// module's package for Provision/Delegate, the constructor's
	// package for Injection, etc). The emitter's cast policy does not
	// read it; it asks frontend.TypeOracle about accessibility instead.
	DeclaringPackage string

	// Origin records where this binding came from, used for tie-breaks.
	Origin Origin

	// Element anchors diagnostics about this binding to source.
	Element frontend.Element

	// Payload is the kind-specific data: *ProvisionPayload,
	// *DelegatePayload, *MultibindingPayload, *AssistedPayload, or nil
	// for kinds that need no further data (BoundInstance, Component,
	// ComponentDependency).
	Payload interface{}
}

// HasScope reports whether the binding declares a caching scope.
func (b Binding) HasScope() bool { return !b.Scope.IsUnscoped() }

func (b Binding) String() string {
	return fmt.Sprintf("%s binding for %s", b.Kind, b.Key)
}

// ProvisionPayload is the kind-specific data for Provision and Production
// bindings: a reference to the declaring module method.
type ProvisionPayload struct {
	Module       frontend.TypeRef
	MethodName   string
	Nullable     bool
	IsStatic     bool // method needs no module instance to invoke
}

// DelegatePayload is the kind-specific data for Delegate bindings: the
// key this binding is an alias for.
type DelegatePayload struct {
	Source key.Key
}

// MultibindingPayload is the kind-specific data for MultiboundSet and
// MultiboundMap bindings: every contribution that must be aggregated, in
// declaration order (the order that makes emission deterministic).
type MultibindingPayload struct {
	// Contributions lists the keys of every individual binding that
	// contributes an element (set) or a (mapKey, value) pair (map).
	Contributions []key.Key

	// MapKeys parallels Contributions for MultiboundMap: MapKeys[i] is
	// the literal map key contributed by Contributions[i]. Empty for
	// MultiboundSet.
	MapKeys []string
}

// AssistedPayload is the kind-specific data for AssistedInjection and
// AssistedFactory bindings.
type AssistedPayload struct {
	// FactoryMethod is the single abstract method declared on an
	// AssistedFactory's interface.
	FactoryMethod string

	// AssistedParams are the parameters supplied by the caller at
	// factory-invocation time, in declared order; they are excluded
	// from Binding.Dependencies because the graph never resolves them.
	AssistedParams []frontend.TypeRef

	// Target is the AssistedInjection binding an AssistedFactory
	// constructs. Unset on AssistedInjection bindings themselves.
	Target key.Key
}
