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

package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-digen/digen/config"
)

func TestNewDefaultsEveryKnobOff(t *testing.T) {
	c := config.New()
	assert.False(t, c.FastInit)
	assert.False(t, c.FormatGeneratedSource)
	assert.False(t, c.WriteProducerNameInToken)
	assert.False(t, c.VerboseDiagnosticMessages)
	assert.False(t, c.IgnoreProvisionKeyWildcards)
}

func TestNewAppliesOptionsInOrder(t *testing.T) {
	c := config.New(
		config.WithFastInit(true),
		config.WithFormatGeneratedSource(true),
	)
	assert.True(t, c.FastInit)
	assert.True(t, c.FormatGeneratedSource)
	assert.False(t, c.WriteProducerNameInToken)
}

func TestLoadParsesDigenYAML(t *testing.T) {
	doc := `
fastInit: true
ignoreProvisionKeyWildcards: true
`
	c, err := config.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, c.FastInit)
	assert.True(t, c.IgnoreProvisionKeyWildcards)
	assert.False(t, c.FormatGeneratedSource)
}

func TestLoadEmptyDocumentReturnsDefaults(t *testing.T) {
	c, err := config.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.New(), c)
}
