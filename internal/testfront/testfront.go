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

// Package testfront is a small hand-built stand-in for a real go/types
// front end, used only by this module's own test suite. It mirrors the
// role of the teacher's internal/digtest helper package: a minimal,
// dependency-free double for the collaborator the real package talks to.
package testfront

import (
	"fmt"

	"github.com/go-digen/digen/frontend"
)

// Type is a synthetic frontend.TypeRef identified purely by name and
// declaring package, good enough to exercise key equality, accessibility,
// and cycle detection without a real type-checker.
type Type struct {
	Pkg  string
	Name string
}

var _ frontend.TypeRef = Type{}

func (t Type) String() string { return t.Pkg + "." + t.Name }
func (t Type) Identity() string { return t.Pkg + "." + t.Name }
func (t Type) Package() string { return t.Pkg }

// Qualifier is a synthetic frontend.Qualifier with sorted member values
// so that construction order never affects Identity, resolving the "map
// key annotations compare equal only after erasure" open question in
// favor of order-independent, exact equality.
type Qualifier struct {
	Name    string
	Members map[string]string
}

var _ frontend.Qualifier = Qualifier{}

func (q Qualifier) String() string { return q.Identity() }

func (q Qualifier) Identity() string {
	keys := make([]string, 0, len(q.Members))
	for k := range q.Members {
		keys = append(keys, k)
	}
	sortStrings(keys)
	s := "@" + q.Name
	for _, k := range keys {
		s += fmt.Sprintf(",%s=%s", k, q.Members[k])
	}
	return s
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// Element is a synthetic frontend.Element naming a source position with
// a plain string.
type Element string

var _ frontend.Element = Element("")

func (e Element) String() string { return string(e) }

// Oracle is a frontend.TypeOracle driven by explicit test wiring: a set
// of (type, package) accessibility facts and a set of wrapper-unwrap
// facts, rather than a real visibility/erasure algorithm.
type Oracle struct {
	accessible map[string]map[string]bool
	unwraps    map[string]frontend.TypeRef
}

var _ frontend.TypeOracle = (*Oracle)(nil)

// NewOracle returns an Oracle with no facts registered; by default every
// type is accessible everywhere, matching the common case in tests that
// don't care about visibility.
func NewOracle() *Oracle {
	return &Oracle{
		accessible: make(map[string]map[string]bool),
		unwraps:    make(map[string]frontend.TypeRef),
	}
}

// SetAccessible overrides whether t is accessible from pkg.
func (o *Oracle) SetAccessible(t frontend.TypeRef, pkg string, ok bool) {
	m, exists := o.accessible[t.Identity()]
	if !exists {
		m = make(map[string]bool)
		o.accessible[t.Identity()] = m
	}
	m[pkg] = ok
}

func (o *Oracle) AccessibleFrom(t frontend.TypeRef, pkg string) bool {
	if m, ok := o.accessible[t.Identity()]; ok {
		if v, ok := m[pkg]; ok {
			return v
		}
	}
	// Default: a type is accessible from its own declaring package, and
	// from any package when no fact was registered.
	return true
}

// SetUnwrap registers that wrapper unwraps to elem.
func (o *Oracle) SetUnwrap(wrapper, elem frontend.TypeRef) {
	o.unwraps[wrapper.Identity()] = elem
}

func (o *Oracle) Unwrap(t frontend.TypeRef) (frontend.TypeRef, bool) {
	elem, ok := o.unwraps[t.Identity()]
	return elem, ok
}

// Reader is a frontend.AnnotationReader driven by explicit test wiring,
// standing in for a real annotation-discovery pass the same way Oracle
// stands in for a real accessibility/erasure algorithm.
type Reader struct {
	annotations map[frontend.Element][]string
	members     map[frontend.Element]map[string]map[string]string
	enclosing   map[frontend.Element]frontend.TypeRef
}

var _ frontend.AnnotationReader = (*Reader)(nil)

// NewReader returns a Reader with no facts registered.
func NewReader() *Reader {
	return &Reader{
		annotations: make(map[frontend.Element][]string),
		members:     make(map[frontend.Element]map[string]map[string]string),
		enclosing:   make(map[frontend.Element]frontend.TypeRef),
	}
}

// SetAnnotations registers the annotation names attached to elem.
func (r *Reader) SetAnnotations(elem frontend.Element, names ...string) {
	r.annotations[elem] = names
}

// SetMember registers a member value of annotation on elem.
func (r *Reader) SetMember(elem frontend.Element, annotation, member, value string) {
	m, ok := r.members[elem]
	if !ok {
		m = make(map[string]map[string]string)
		r.members[elem] = m
	}
	mm, ok := m[annotation]
	if !ok {
		mm = make(map[string]string)
		m[annotation] = mm
	}
	mm[member] = value
}

// SetEnclosingType registers elem's enclosing type declaration.
func (r *Reader) SetEnclosingType(elem frontend.Element, enclosing frontend.TypeRef) {
	r.enclosing[elem] = enclosing
}

func (r *Reader) Annotations(elem frontend.Element) []string {
	return r.annotations[elem]
}

func (r *Reader) MemberValue(elem frontend.Element, annotation, member string) (string, bool) {
	mm, ok := r.members[elem][annotation]
	if !ok {
		return "", false
	}
	v, ok := mm[member]
	return v, ok
}

func (r *Reader) EnclosingType(elem frontend.Element) frontend.TypeRef {
	return r.enclosing[elem]
}

// Messager records every diagnostic reported to it, for test assertions.
type Messager struct {
	Reports []Report
}

// Report is one recorded Messager.Report call.
type Report struct {
	Severity frontend.Severity
	Origin   frontend.Element
	Message  string
}

var _ frontend.Messager = (*Messager)(nil)

func (m *Messager) Report(severity frontend.Severity, origin frontend.Element, message string) {
	m.Reports = append(m.Reports, Report{Severity: severity, Origin: origin, Message: message})
}
