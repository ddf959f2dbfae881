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

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-digen/digen/bind"
	"github.com/go-digen/digen/diag"
	"github.com/go-digen/digen/graph"
	"github.com/go-digen/digen/internal/testfront"
	"github.com/go-digen/digen/key"
	"github.com/go-digen/digen/validate"
)

func tkey(name string) key.Key {
	return key.New(testfront.Type{Pkg: "app", Name: name})
}

func build(t *testing.T, decls graph.Declarations, eps []graph.EntryPoint) (*graph.BindingGraph, *diag.Report) {
	t.Helper()
	report := diag.NewReport()
	bg := graph.NewBuilder(decls, report).Build(eps)
	require.False(t, report.Fatal(), "test fixture graph must build cleanly: %s", report)
	return bg, report
}

func TestValidateFlagsIllegalCycle(t *testing.T) {
	aKey, bKey := tkey("A"), tkey("B")
	decls := graph.Declarations{
		Component: "App",
		Injectable: map[string]*bind.Binding{
			aKey.Comparable(): {Key: aKey, Kind: bind.Injection,
				Dependencies: []bind.Dependency{{Key: bKey, Request: key.INSTANCE}}},
			bKey.Comparable(): {Key: bKey, Kind: bind.Injection,
				Dependencies: []bind.Dependency{{Key: aKey, Request: key.INSTANCE}}},
		},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: aKey, Request: key.INSTANCE}})

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App"}, report)
	require.True(t, report.Fatal())
	assert.Equal(t, diag.DependencyCycle, report.Diagnostics()[0].Kind)
}

func TestValidateRejectsScopeNotDeclaredOnComponent(t *testing.T) {
	fooKey := tkey("Foo")
	decls := graph.Declarations{
		Component: "App",
		Injectable: map[string]*bind.Binding{
			fooKey.Comparable(): {Key: fooKey, Kind: bind.Injection, Scope: key.Named("RequestScoped")},
		},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}})

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App"}, report)
	require.True(t, report.Fatal())
	assert.Equal(t, diag.ScopeNotOnComponent, report.Diagnostics()[0].Kind)

	report2 := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App", DeclaredScopes: []key.Scope{key.Named("RequestScoped")}}, report2)
	assert.False(t, report2.Fatal(), "declaring the scope on the component clears the error")
}

func TestValidateAllowsReusableWithoutDeclaration(t *testing.T) {
	fooKey := tkey("Foo")
	decls := graph.Declarations{
		Component: "App",
		Injectable: map[string]*bind.Binding{
			fooKey.Comparable(): {Key: fooKey, Kind: bind.Injection, Scope: key.Reusable},
		},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}})

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App"}, report)
	assert.False(t, report.Fatal())
}

func TestValidateRejectsProductionBindingInNonProductionComponent(t *testing.T) {
	fooKey := tkey("Foo")
	decls := graph.Declarations{
		Component: "App",
		Explicit: map[string][]*bind.Binding{
			fooKey.Comparable(): {{Key: fooKey, Kind: bind.Production, Payload: &bind.ProvisionPayload{}}},
		},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}})

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App", IsProduction: false}, report)
	require.True(t, report.Fatal())
	assert.Equal(t, diag.ProductionInNonProductionComponent, report.Diagnostics()[0].Kind)

	report2 := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App", IsProduction: true}, report2)
	assert.False(t, report2.Fatal())
}

func TestValidateRejectsNullableFlowingIntoNonNullableDependency(t *testing.T) {
	fooKey, barKey := tkey("Foo"), tkey("Bar")
	decls := graph.Declarations{
		Component: "App",
		Explicit: map[string][]*bind.Binding{
			fooKey.Comparable(): {{Key: fooKey, Kind: bind.Provision,
				Payload: &bind.ProvisionPayload{Nullable: true}}},
		},
		Injectable: map[string]*bind.Binding{
			barKey.Comparable(): {Key: barKey, Kind: bind.Injection,
				Dependencies: []bind.Dependency{{Key: fooKey, Request: key.INSTANCE, Nullable: false}}},
		},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: barKey, Request: key.INSTANCE}})

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App"}, report)
	require.True(t, report.Fatal())
	assert.Equal(t, diag.NullableToNonNullable, report.Diagnostics()[0].Kind)
}

func TestValidateRejectsDuplicateMultibindingMapKey(t *testing.T) {
	mapKey := tkey("HandlerMap")
	elemA, elemB := tkey("HandlerA"), tkey("HandlerB")
	decls := graph.Declarations{
		Component: "App",
		Explicit: map[string][]*bind.Binding{
			elemA.Comparable(): {{Key: elemA, Kind: bind.Provision, Payload: &bind.ProvisionPayload{}}},
			elemB.Comparable(): {{Key: elemB, Kind: bind.Provision, Payload: &bind.ProvisionPayload{}}},
		},
		Multibindings: map[string]graph.MultibindingSpec{
			mapKey.Comparable(): {
				Key: mapKey, Kind: bind.MultiboundMap,
				Contributions: []key.Key{elemA, elemB},
				MapKeys:       []string{"dup", "dup"},
			},
		},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: mapKey, Request: key.INSTANCE}})

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App"}, report)
	require.True(t, report.Fatal())
	assert.Equal(t, diag.MultibindingMapKeyCollision, report.Diagnostics()[0].Kind)
}

func TestValidateRejectsAssistedBindingRequestedAsLazyOutsideItsFactory(t *testing.T) {
	assistedKey, consumerKey := tkey("Widget"), tkey("Consumer")
	decls := graph.Declarations{
		Component: "App",
		Injectable: map[string]*bind.Binding{
			assistedKey.Comparable(): {Key: assistedKey, Kind: bind.AssistedInjection,
				Payload: &bind.AssistedPayload{}},
			consumerKey.Comparable(): {Key: consumerKey, Kind: bind.Injection,
				Dependencies: []bind.Dependency{{Key: assistedKey, Request: key.LAZY}}},
		},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: consumerKey, Request: key.INSTANCE}})

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{Name: "App"}, report)
	require.True(t, report.Fatal())
	assert.Equal(t, diag.IncompatibleAssistedUsage, report.Diagnostics()[0].Kind)
}

func TestValidateRejectsInaccessibleExposedType(t *testing.T) {
	fooKey := tkey("foo") // lower-case name simulating an unexported type
	decls := graph.Declarations{
		Component:  "App",
		Injectable: map[string]*bind.Binding{fooKey.Comparable(): {Key: fooKey, Kind: bind.Injection}},
	}
	bg, _ := build(t, decls, []graph.EntryPoint{{Key: fooKey, Request: key.INSTANCE}})

	oracle := testfront.NewOracle()
	oracle.SetAccessible(testfront.Type{Pkg: "app", Name: "foo"}, "app.generated", false)

	report := diag.NewReport()
	validate.Validate(bg, validate.ComponentInfo{
		Name: "App", Oracle: oracle, ExposedFromPkg: "app.generated",
	}, report)
	require.True(t, report.Fatal())
	assert.Equal(t, diag.InaccessibleBindingExposure, report.Diagnostics()[0].Kind)
}
