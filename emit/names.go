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

package emit

import "strings"

// ComponentImplName derives the generated implementation type's simple
// name for a component declared as a (possibly nested) type: the
// outermost simple name gets the Dagger prefix, and every enclosing
// simple name down to the component itself is underscore-joined, per
// spec.md §6's generated-artifact convention ("pkg.Outer.Inner" ->
// "pkg.DaggerOuter_Inner").
func ComponentImplName(enclosingSimpleNames ...string) string {
	if len(enclosingSimpleNames) == 0 {
		return "Dagger"
	}
	joined := strings.Join(enclosingSimpleNames, "_")
	return "Dagger" + joined
}

// ModuleProxyName derives the sibling proxy type's name for a module
// whose constructor the generated code cannot call directly.
func ModuleProxyName(moduleSimpleName string) string {
	return moduleSimpleName + "_Proxy"
}
