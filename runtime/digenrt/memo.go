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

// Package digenrt is the small runtime support library that generated
// component code imports: the memoizer wrappers a scoped provider field
// is initialized with, and the dispatcher a switching-provider supplier
// calls into. Nothing in this package is specific to one generated
// component; it is linked, not code-generated.
//
// The double-check wrapper is grounded in the teacher's Container.Lock/
// Unlock-guarded cachedValue field (container.go), generalized from "one
// mutex per container" to "one mutex per memoized binding" and switched
// from a bare bool+sync.Mutex pair to go.uber.org/atomic so Get's fast
// path reads the ready flag without taking the lock.
package digenrt

import (
	"sync"

	"go.uber.org/atomic"
)

// DoubleCheck memoizes a single value with publication-safe,
// cross-thread single-instance semantics: the emitted code for a
// strongly (named-) scoped binding wraps its factory in one of these.
// The zero value is ready to use.
type DoubleCheck struct {
	mu    sync.Mutex
	ready atomic.Bool
	value interface{}
}

// Get returns the memoized value, calling factory exactly once across
// all callers even under concurrent first access.
func (d *DoubleCheck) Get(factory func() interface{}) interface{} {
	if d.ready.Load() {
		return d.value
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready.Load() {
		d.value = factory()
		d.ready.Store(true)
	}
	return d.value
}

// SingleCheck memoizes a value with eventual single-instance semantics
// only: two goroutines racing on first access may both invoke factory
// and both observe their own call's result, but every later caller
// converges on whichever one happened to win the final store. This is
// the weaker guarantee the Reusable scope grants in exchange for never
// taking a lock; it is only safe for factories whose product is
// interchangeable with any other call's product (the contract
// go.uber.org/dig's Reusable equivalent already assumes of
// @Reusable-scoped provisions).
type SingleCheck struct {
	value atomic.Value
}

// Get returns the memoized value, tolerating redundant factory calls on
// a first-access race but never re-invoking factory once any value has
// been published.
func (s *SingleCheck) Get(factory func() interface{}) interface{} {
	if v := s.value.Load(); v != nil {
		return v
	}
	v := factory()
	s.value.Store(v)
	return v
}

// Dispatcher is the runtime side of a switching-provider: one instance
// per component, holding the freshly assigned integer id for each
// binding first demanded in stable iteration order, and invoking the
// generated switch to produce the corresponding instance. The emitter
// generates the switch function; Dispatcher only owns id bookkeeping
// and wraps the switch's output in the right memoizer when a binding is
// scoped.
type Dispatcher struct {
	mu     sync.Mutex
	nextID int
	ids    map[string]int
	memos  map[int]interface{ Get(func() interface{}) interface{} }
}

// NewDispatcher returns a Dispatcher with no ids assigned yet.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		ids:   make(map[string]int),
		memos: make(map[int]interface{ Get(func() interface{}) interface{} }),
	}
}

// IDFor returns the stable dispatcher id for bindingKey, assigning one
// on first demand. Ids are assigned in the order this method is first
// called for each key, which the emitter arranges to be the graph's
// stable iteration order so that repeated generation runs produce the
// same ids.
func (d *Dispatcher) IDFor(bindingKey string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.ids[bindingKey]; ok {
		return id
	}
	id := d.nextID
	d.nextID++
	d.ids[bindingKey] = id
	return id
}

// memoizer is implemented by *DoubleCheck and *SingleCheck.
type memoizer interface {
	Get(factory func() interface{}) interface{}
}

// WithDoubleCheck registers (or reuses) a DoubleCheck memoizer for
// dispatcher id, wrapping switchCase so repeated calls for the same id
// share one cached value.
func (d *Dispatcher) WithDoubleCheck(id int, switchCase func() interface{}) interface{} {
	d.mu.Lock()
	m, ok := d.memos[id]
	if !ok {
		dc := &DoubleCheck{}
		d.memos[id] = dc
		m = dc
	}
	d.mu.Unlock()
	return m.Get(switchCase)
}

// WithSingleCheck registers (or reuses) a SingleCheck memoizer for
// dispatcher id, wrapping switchCase the same way WithDoubleCheck does
// but with the Reusable scope's weaker guarantee.
func (d *Dispatcher) WithSingleCheck(id int, switchCase func() interface{}) interface{} {
	d.mu.Lock()
	m, ok := d.memos[id]
	if !ok {
		sc := &SingleCheck{}
		d.memos[id] = sc
		m = sc
	}
	d.mu.Unlock()
	return m.Get(switchCase)
}

var _ memoizer = (*DoubleCheck)(nil)
var _ memoizer = (*SingleCheck)(nil)
