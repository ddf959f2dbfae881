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

// Package driver runs the pipeline (graph build, validate, emit) over
// each component request a front end has discovered, and defers a component to
// a later round when an input it depends on (typically another
// component's own generated module) is not yet available. Terminal
// rounds that still have deferred work are reported as an error.
//
// Round-based deferral is grounded in the teacher's layered Scope
// construction (Scope.Scope in scope.go builds a child only once its
// parent already exists); here the "parent" relationship is "component B
// needs component A's generated module", discovered lazily instead of
// built top-down, so a round loop replaces the teacher's recursive
// construction order.
package driver

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-digen/digen/config"
	"github.com/go-digen/digen/diag"
	"github.com/go-digen/digen/emit"
	"github.com/go-digen/digen/frontend"
	"github.com/go-digen/digen/graph"
	"github.com/go-digen/digen/internal/digclock"
	"github.com/go-digen/digen/repr"
	"github.com/go-digen/digen/supply"
	"github.com/go-digen/digen/validate"
)

// CompilationContext is the single mutable value threaded explicitly
// through one driver run. It holds nothing process-wide: a fresh
// CompilationContext is created per Run call and discarded when Run
// returns, per spec.md §5's "no process-wide state" guarantee.
type CompilationContext struct {
	RunID    string
	Config   config.Config
	Messager frontend.Messager
	Logger   *zap.Logger

	// Clock is the source of time Run uses to report how long a run took.
	// It defaults to digclock.System; tests substitute a digclock.Mock so
	// the reported duration is deterministic.
	Clock digclock.Clock
}

// NewCompilationContext returns a CompilationContext with a fresh
// correlation id, ready to thread through one Run call.
func NewCompilationContext(cfg config.Config, messager frontend.Messager, logger *zap.Logger) *CompilationContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompilationContext{
		RunID:    uuid.NewString(),
		Config:   cfg,
		Messager: messager,
		Logger:   logger,
		Clock:    digclock.System,
	}
}

// ComponentRequest is one annotated component discovered by the
// front end, ready to be fed through the pipeline once its Ready
// predicate reports true.
type ComponentRequest struct {
	Name        string
	Declarations graph.Declarations
	EntryPoints  []graph.EntryPoint
	Info         validate.ComponentInfo
	SupplyInputs supply.Inputs
	ReprMode     repr.Mode

	// Ready reports whether every input this component's Declarations
	// reference (most commonly, a parent component's already-generated
	// module) is currently available. The driver re-evaluates this once
	// per round; a component that is never ready by the terminal round
	// is a deferral failure.
	Ready func() bool
}

// Result is the outcome of compiling one ComponentRequest.
type Result struct {
	Name           string
	Implementation *emit.Implementation
	Report         *diag.Report
}

// maxRounds bounds the deferral loop: a component graph deeper than
// this many levels of "needs another component's generated output
// first" almost certainly indicates a front-end discovery bug rather
// than a legitimately deep subcomponent nesting, so the driver fails
// fast instead of looping indefinitely.
const maxRounds = 64

// Run executes the pipeline over every request, deferring any whose
// Ready predicate is false to a later round, and returns one Result per
// request that was ever compiled. Requests still unready after
// maxRounds rounds, or after a round in which no request became ready,
// are named in the returned error and omitted from the results.
func Run(cctx *CompilationContext, requests []ComponentRequest) ([]Result, error) {
	clock := cctx.Clock
	if clock == nil {
		clock = digclock.System
	}
	started := clock.Now()

	logger := cctx.Logger.With(zap.String("run_id", cctx.RunID))
	logger.Info("compilation started", zap.Int("components", len(requests)))

	pending := make([]ComponentRequest, len(requests))
	copy(pending, requests)

	var results []Result

	for round := 0; len(pending) > 0 && round < maxRounds; round++ {
		var stillPending []ComponentRequest
		progressed := false

		for _, req := range pending {
			if req.Ready != nil && !req.Ready() {
				stillPending = append(stillPending, req)
				continue
			}
			progressed = true
			logger.Info("compiling component", zap.Int("round", round), zap.String("component", req.Name))
			results = append(results, compileOne(cctx, req))
		}

		pending = stillPending
		if !progressed && len(pending) > 0 {
			break
		}
	}

	if len(pending) > 0 {
		names := make([]string, len(pending))
		for i, req := range pending {
			names[i] = req.Name
		}
		logger.Error("components never became ready",
			zap.Strings("components", names), zap.Duration("elapsed", clock.Since(started)))
		return results, fmt.Errorf("digen: %d component(s) never became ready for compilation: %v", len(pending), names)
	}

	logger.Info("compilation finished",
		zap.Int("components", len(results)), zap.Duration("elapsed", clock.Since(started)))
	return results, nil
}

// compileOne runs the graph build, validate, and emit stages for a
// single component, recovering any internal-assertion panic at this
// boundary so that one malformed component never aborts the rest of the
// run.
func compileOne(cctx *CompilationContext, req ComponentRequest) (result Result) {
	report := diag.NewReport()
	result = Result{Name: req.Name, Report: report}
	defer diag.Recover(report, nil)

	bg := graph.NewBuilder(req.Declarations, report).Build(req.EntryPoints)
	if report.Fatal() {
		report.Emit(cctx.Messager)
		return result
	}

	validate.Validate(bg, req.Info, report)
	if report.Fatal() {
		report.Emit(cctx.Messager)
		return result
	}

	impl := buildImplementation(bg, req, cctx)
	result.Implementation = &impl
	report.Emit(cctx.Messager)
	return result
}

// buildImplementation runs the representation-selection and supplier-
// strategy stages over every entry point and hands the accumulated
// plan to emit.Builder.
func buildImplementation(bg *graph.BindingGraph, req ComponentRequest, cctx *CompilationContext) emit.Implementation {
	b := emit.NewBuilder(req.Name)
	entryPoints := make([]emit.EntryPointMethod, 0, len(req.EntryPoints))
	for _, ep := range req.EntryPoints {
		entryPoints = append(entryPoints, b.AddEntryPoint(bg, ep, req.ReprMode, req.SupplyInputs, req.Info.Oracle, req.Info.ExposedFromPkg))
	}
	proxies := emit.DecideModuleProxies(bg, req.Info.Oracle, req.Info.ExposedFromPkg)
	return b.Build(proxies, entryPoints)
}
