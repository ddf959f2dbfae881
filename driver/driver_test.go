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

package driver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-digen/digen/bind"
	"github.com/go-digen/digen/config"
	"github.com/go-digen/digen/driver"
	"github.com/go-digen/digen/graph"
	"github.com/go-digen/digen/internal/digclock"
	"github.com/go-digen/digen/internal/testfront"
	"github.com/go-digen/digen/key"
	"github.com/go-digen/digen/validate"
)

func tkey(name string) key.Key {
	return key.New(testfront.Type{Pkg: "app", Name: name})
}

func newCtx(t *testing.T) *driver.CompilationContext {
	t.Helper()
	return driver.NewCompilationContext(config.New(), &testfront.Messager{}, nil)
}

func TestRunCompilesAnImmediatelyReadyComponent(t *testing.T) {
	fooKey := tkey("Foo")
	req := driver.ComponentRequest{
		Name: "DaggerApp",
		Declarations: graph.Declarations{
			Component:  "App",
			Injectable: map[string]*bind.Binding{fooKey.Comparable(): {Key: fooKey, Kind: bind.Injection}},
		},
		EntryPoints: []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}},
		Info:        validate.ComponentInfo{Name: "App"},
	}

	results, err := driver.Run(newCtx(t), []driver.ComponentRequest{req})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Report.Fatal())
	require.NotNil(t, results[0].Implementation)
	assert.Equal(t, "DaggerApp", results[0].Implementation.Name)
}

func TestRunDefersUntilParentComponentHasCompiled(t *testing.T) {
	fooKey, barKey := tkey("Foo"), tkey("Bar")
	parentCompiled := false

	// parent's Ready func always reports true, so it compiles in
	// round 0; that func flips parentCompiled as a side effect so
	// child (whose generated module depends on parent's) only becomes
	// ready starting round 1.
	parent := driver.ComponentRequest{
		Name: "DaggerParent",
		Declarations: graph.Declarations{
			Component:  "Parent",
			Injectable: map[string]*bind.Binding{fooKey.Comparable(): {Key: fooKey, Kind: bind.Injection}},
		},
		EntryPoints: []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}},
		Info:        validate.ComponentInfo{Name: "Parent"},
		Ready:       func() bool { parentCompiled = true; return true },
	}
	child := driver.ComponentRequest{
		Name: "DaggerChild",
		Declarations: graph.Declarations{
			Component:  "Child",
			Injectable: map[string]*bind.Binding{barKey.Comparable(): {Key: barKey, Kind: bind.Injection}},
		},
		EntryPoints: []graph.EntryPoint{{Key: barKey, Request: key.INSTANCE}},
		Info:        validate.ComponentInfo{Name: "Child"},
		Ready:       func() bool { return parentCompiled },
	}

	results, err := driver.Run(newCtx(t), []driver.ComponentRequest{child, parent})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Report.Fatal(), r.Name)
	}
}

func TestRunUsesInjectedClockForElapsedReporting(t *testing.T) {
	fooKey := tkey("Foo")
	req := driver.ComponentRequest{
		Name: "DaggerApp",
		Declarations: graph.Declarations{
			Component:  "App",
			Injectable: map[string]*bind.Binding{fooKey.Comparable(): {Key: fooKey, Kind: bind.Injection}},
		},
		EntryPoints: []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}},
		Info:        validate.ComponentInfo{Name: "App"},
	}

	mock := digclock.NewMock()
	cctx := newCtx(t)
	cctx.Clock = mock
	mock.Add(5 * time.Second)

	results, err := driver.Run(cctx, []driver.ComponentRequest{req})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestRunReportsErrorWhenNeverReady(t *testing.T) {
	req := driver.ComponentRequest{
		Name:  "DaggerStuck",
		Ready: func() bool { return false },
	}

	results, err := driver.Run(newCtx(t), []driver.ComponentRequest{req})
	require.Error(t, err)
	assert.Empty(t, results)
}

func TestRunReportsFatalDiagnosticWithoutAbortingOtherComponents(t *testing.T) {
	brokenKey := tkey("Unresolvable")
	broken := driver.ComponentRequest{
		Name: "DaggerBroken",
		Declarations: graph.Declarations{Component: "Broken"},
		EntryPoints:  []graph.EntryPoint{{Key: brokenKey, Request: key.INSTANCE}},
		Info:         validate.ComponentInfo{Name: "Broken"},
	}
	fooKey := tkey("Foo")
	healthy := driver.ComponentRequest{
		Name: "DaggerHealthy",
		Declarations: graph.Declarations{
			Component:  "Healthy",
			Injectable: map[string]*bind.Binding{fooKey.Comparable(): {Key: fooKey, Kind: bind.Injection}},
		},
		EntryPoints: []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}},
		Info:        validate.ComponentInfo{Name: "Healthy"},
	}

	results, err := driver.Run(newCtx(t), []driver.ComponentRequest{broken, healthy})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Report.Fatal())
	assert.Nil(t, results[0].Implementation)
	assert.False(t, results[1].Report.Fatal())
	require.NotNil(t, results[1].Implementation)
}
