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

package digraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcyclicGraph(t *testing.T) {
	g := New()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	g.AddEdge(a, b, 0)
	g.AddEdge(b, c, 0)

	require.Nil(t, FindCycle(g, []Handle{a}))
	assert.Equal(t, 4, g.Order()) // sentinel + 3 nodes
}

func TestCycleDetectedOnInstanceEdges(t *testing.T) {
	g := New()
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddEdge(a, b, 0)
	g.AddEdge(b, a, 0)

	cyc := FindCycle(g, []Handle{a})
	require.NotNil(t, cyc)
	assert.False(t, cyc.breaksOn(func(k EdgeKind) bool { return k == 1 }))
}

func TestCycleBreaksOnNonInstanceEdge(t *testing.T) {
	g := New()
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddEdge(a, b, 0)
	g.AddEdge(b, a, 1) // e.g. a PROVIDER-kind edge

	cyc := FindCycle(g, []Handle{a})
	require.NotNil(t, cyc)
	assert.True(t, cyc.breaksOn(func(k EdgeKind) bool { return k == 1 }))
}

func TestLookupReturnsWrappedPayload(t *testing.T) {
	g := New()
	h := g.AddNode(42)
	assert.Equal(t, 42, g.Lookup(h))
}
