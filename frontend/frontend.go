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

// Package frontend declares the collaborators the core pipeline reads from
// and writes to, but never implements itself: the source-language type
// model, the annotation taxonomy, the textual code writer, and the
// diagnostic sink. Production callers plug in a real go/types-backed
// implementation; the test suite plugs in internal/testfront.
package frontend

import "fmt"

// TypeRef is a canonical reference to a source-language type as seen by the
// front end. Two TypeRefs describe the same type iff their Identity values
// are equal; digen never compares front-end types any other way.
type TypeRef interface {
	fmt.Stringer

	// Identity is a canonical, type-argument-inclusive identity string for
	// this type, already erasure-normalized by the front end.
	Identity() string

	// Package is the declaring package's import path, or "" for
	// predeclared types and type parameters.
	Package() string
}

// Qualifier identifies a DI qualifier annotation, including its member
// values. Two Qualifiers are the same qualifier iff their Identity values
// are equal; Identity must be independent of the declaration order of
// annotation member values.
type Qualifier interface {
	fmt.Stringer
	Identity() string
}

// Element is an opaque annotated source element (a method, a constructor,
// a field, a type) that diagnostics can be anchored to. The core never
// inspects an Element beyond forwarding it to a Messager.
type Element interface {
	fmt.Stringer
}

// AnnotationReader is the discovery-time collaborator that walks the
// front end's type model and reports the DI-relevant annotations
// attached to a declaration: component, module, provides, binds,
// inject, scope, qualifier, multibinding, assisted, and production
// markers (spec.md §6's input surface). It is consumed by whatever
// build-system integration discovers annotated roots before handing
// driver.ComponentRequest values to the core pipeline — the core
// algorithm itself never calls it, the same way it never calls
// SourceWriter directly; both sit at the discovery/output edges of the
// pipeline, not inside it.
type AnnotationReader interface {
	// Annotations returns the DI-relevant annotation names attached to
	// elem, in source declaration order.
	Annotations(elem Element) []string

	// MemberValue returns the named member's literal value on the named
	// annotation attached to elem, and whether that member was set.
	MemberValue(elem Element, annotation, member string) (string, bool)

	// EnclosingType returns the type declaration elem is nested in, or
	// nil if elem is already a top-level type.
	EnclosingType(elem Element) TypeRef
}

// TypeOracle answers accessibility and wrapper-unwrapping questions about
// TypeRefs. These questions follow the declaring language's visibility
// rules and are therefore answered by the front end, not the core.
type TypeOracle interface {
	// AccessibleFrom reports whether t (or a member declared on it) can be
	// referenced from source code in package pkg.
	AccessibleFrom(t TypeRef, pkg string) bool

	// Unwrap strips one layer of framework wrapper (e.g. the element type
	// of a "slice of provider") from t, if t is such a wrapper.
	Unwrap(t TypeRef) (elem TypeRef, ok bool)
}

// Severity is the importance of a single diagnostic.
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// Messager is the write-only diagnostic sink. Any stage may report through
// it; it is never read back from within the core.
type Messager interface {
	Report(severity Severity, origin Element, message string)
}

// SourceFile is the abstract source tree the core hands to a SourceWriter.
// Its shape is intentionally shallow: the core never formats or
// pretty-prints text, it only describes declarations.
type SourceFile struct {
	Package string
	Decls   []Decl
}

// Decl is one top-level declaration (a type, a field, a method, a
// statement block) in an abstract source tree. The core treats Decl as
// opaque data to be carried to the writer; fields below are the common
// shape every emission stage fills in.
type Decl struct {
	Kind   string // "type", "field", "method", "init"
	Name   string
	Body   []Stmt
	Nested []Decl
}

// Stmt is one abstract statement contributed by an emission stage.
type Stmt struct {
	Text string // opaque to the core; meaningful only to the writer
}

// SourceWriter persists an abstract SourceFile. The core never touches a
// filesystem path directly.
type SourceWriter interface {
	Write(file *SourceFile) error
}
