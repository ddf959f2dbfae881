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

package testfront_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-digen/digen/internal/testfront"
)

func TestReaderReturnsRegisteredAnnotationsInOrder(t *testing.T) {
	r := testfront.NewReader()
	elem := testfront.Element("app.Widget#provideFoo")
	r.SetAnnotations(elem, "Provides", "IntoSet")

	assert.Equal(t, []string{"Provides", "IntoSet"}, r.Annotations(elem))
}

func TestReaderReturnsMemberValueAndPresence(t *testing.T) {
	r := testfront.NewReader()
	elem := testfront.Element("app.Widget#provideFoo")
	r.SetMember(elem, "Named", "value", "primary")

	v, ok := r.MemberValue(elem, "Named", "value")
	assert.True(t, ok)
	assert.Equal(t, "primary", v)

	_, ok = r.MemberValue(elem, "Named", "missing")
	assert.False(t, ok)
}

func TestReaderReturnsEnclosingType(t *testing.T) {
	r := testfront.NewReader()
	elem := testfront.Element("app.Widget#provideFoo")
	widget := testfront.Type{Pkg: "app", Name: "Widget"}
	r.SetEnclosingType(elem, widget)

	assert.Equal(t, widget, r.EnclosingType(elem))
}
