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

// Package bind is the tagged-variant binding model: one Kind enum plus a
// kind-specific payload, in place of an open inheritance hierarchy.
// Go does not check switch exhaustiveness, so a Kind added here without
// updating the downstream switches on Kind reaches their default cases
// (for example, String returns "UNKNOWN_BINDING_KIND").
package bind

// Kind is the closed set of binding variants.
type Kind int

const (
	Injection Kind = iota
	Provision
	Delegate
	MultiboundSet
	MultiboundMap
	Optional
	Component
	ComponentProvision
	ComponentDependency
	BoundInstance
	SubcomponentCreator
	AssistedInjection
	AssistedFactory
	MembersInjector
	MembersInjection
	Production
	ComponentProduction
)

func (k Kind) String() string {
	switch k {
	case Injection:
		return "INJECTION"
	case Provision:
		return "PROVISION"
	case Delegate:
		return "DELEGATE"
	case MultiboundSet:
		return "MULTIBOUND_SET"
	case MultiboundMap:
		return "MULTIBOUND_MAP"
	case Optional:
		return "OPTIONAL"
	case Component:
		return "COMPONENT"
	case ComponentProvision:
		return "COMPONENT_PROVISION"
	case ComponentDependency:
		return "COMPONENT_DEPENDENCY"
	case BoundInstance:
		return "BOUND_INSTANCE"
	case SubcomponentCreator:
		return "SUBCOMPONENT_CREATOR"
	case AssistedInjection:
		return "ASSISTED_INJECTION"
	case AssistedFactory:
		return "ASSISTED_FACTORY"
	case MembersInjector:
		return "MEMBERS_INJECTOR"
	case MembersInjection:
		return "MEMBERS_INJECTION"
	case Production:
		return "PRODUCTION"
	case ComponentProduction:
		return "COMPONENT_PRODUCTION"
	default:
		return "UNKNOWN_BINDING_KIND"
	}
}

// Multibinding reports whether k is one of the two multibinding kinds.
func (k Kind) Multibinding() bool {
	return k == MultiboundSet || k == MultiboundMap
}

// ProductionOnly reports whether k is only legal inside a production
// component.
func (k Kind) ProductionOnly() bool {
	return k == Production || k == ComponentProduction
}
