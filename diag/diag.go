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

// Package diag defines the closed set of validator error kinds and the
// per-component report that collects them before a fatal one suppresses
// emission.
package diag

import (
	"fmt"
	"strings"

	"github.com/go-digen/digen/frontend"
	"github.com/go-digen/digen/key"
)

// Kind is the closed set of diagnostic kinds the validator can surface.
type Kind string

const (
	MissingBinding                      Kind = "MISSING_BINDING"
	DuplicateBinding                     Kind = "DUPLICATE_BINDING"
	DependencyCycle                      Kind = "DEPENDENCY_CYCLE"
	ScopeNotOnComponent                  Kind = "SCOPE_NOT_ON_COMPONENT"
	IncompatibleAssistedUsage            Kind = "INCOMPATIBLE_ASSISTED_USAGE"
	ProductionInNonProductionComponent   Kind = "PRODUCTION_IN_NON_PRODUCTION_COMPONENT"
	NullableToNonNullable                Kind = "NULLABLE_TO_NON_NULLABLE"
	MultibindingMapKeyCollision          Kind = "MULTIBINDING_MAP_KEY_COLLISION"
	InvalidComponentDeclaration          Kind = "INVALID_COMPONENT_DECLARATION"
	InaccessibleBindingExposure          Kind = "INACCESSIBLE_BINDING_EXPOSURE"
)

// Diagnostic is one surfaced problem, anchored to the key and/or source
// element it concerns.
type Diagnostic struct {
	Kind     Kind
	Severity frontend.Severity
	Key      key.Key
	Origin   frontend.Element
	Message  string
}

func (d Diagnostic) String() string {
	if d.Origin != nil {
		return fmt.Sprintf("%s: %s (%s) at %s", d.Severity, d.Message, d.Kind, d.Origin)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Kind)
}

// Report accumulates the diagnostics produced while validating and
// emitting a single component. A Report is owned by one component's
// pipeline run; it is never shared across components, mirroring the
// per-component isolation the driver guarantees (a fatal diagnostic
// aborts only the component it was raised against).
type Report struct {
	diags []Diagnostic
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{}
}

// Add records a diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.diags = append(r.diags, d)
}

// Errorf is a convenience for Add with SeverityError and a formatted
// message.
func (r *Report) Errorf(k Kind, ky key.Key, origin frontend.Element, format string, args ...interface{}) {
	r.Add(Diagnostic{
		Kind:     k,
		Severity: frontend.SeverityError,
		Key:      ky,
		Origin:   origin,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnf is a convenience for Add with SeverityWarning and a formatted
// message.
func (r *Report) Warnf(k Kind, ky key.Key, origin frontend.Element, format string, args ...interface{}) {
	r.Add(Diagnostic{
		Kind:     k,
		Severity: frontend.SeverityWarning,
		Key:      ky,
		Origin:   origin,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns every diagnostic recorded so far, in recording
// order.
func (r *Report) Diagnostics() []Diagnostic {
	return r.diags
}

// Fatal reports whether any recorded diagnostic is SeverityError. A fatal
// report means the driver must skip emission for this component.
func (r *Report) Fatal() bool {
	for _, d := range r.diags {
		if d.Severity == frontend.SeverityError {
			return true
		}
	}
	return false
}

// Emit sends every recorded diagnostic to m, in recording order.
func (r *Report) Emit(m frontend.Messager) {
	for _, d := range r.diags {
		m.Report(d.Severity, d.Origin, d.Message)
	}
}

func (r *Report) String() string {
	var b strings.Builder
	for _, d := range r.diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// InternalError is panicked by a stage that finds itself in a state the
// validator should have already rejected (a dispatcher id not found, a
// supplier asked for an expression with an inconsistent kind). The driver
// recovers it at the per-component boundary and converts it into a fatal
// diagnostic naming the offending binding, rather than crashing the run.
type InternalError struct {
	Key     key.Key
	Message string
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal: %s (binding %s)", e.Message, e.Key)
}

// Assertf panics with an InternalError. Stages call this instead of
// returning an error when the condition violated is one the validator is
// supposed to have already ruled out.
func Assertf(k key.Key, format string, args ...interface{}) {
	panic(InternalError{Key: k, Message: fmt.Sprintf(format, args...)})
}

// Recover converts a panicking InternalError into a fatal diagnostic on
// report, and re-panics anything else. Call it deferred at the top of the
// per-component pipeline run.
func Recover(report *Report, origin frontend.Element) {
	if r := recover(); r != nil {
		if ie, ok := r.(InternalError); ok {
			report.Add(Diagnostic{
				Kind:     InvalidComponentDeclaration,
				Severity: frontend.SeverityError,
				Key:      ie.Key,
				Origin:   origin,
				Message:  ie.Error(),
			})
			return
		}
		panic(r)
	}
}
