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

// Package config holds the driver knobs enumerated in spec.md §6 and the
// digen.yaml loader that populates them. The Option/optionFunc pattern
// mirrors the teacher's Option/optionFunc pair in options.go, retargeted
// from configuring a runtime Container to configuring a compile-time
// Config.
package config

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Config is every knob the driver consults while emitting code. Every
// field's effect is scoped to code emission and has no effect on
// validation outcome, per spec.md §6.
type Config struct {
	// FastInit selects switching-provider mode (spec.md §4.5).
	FastInit bool `yaml:"fastInit"`

	// FormatGeneratedSource asks the source writer to run the emitted
	// tree through a formatter before persisting it.
	FormatGeneratedSource bool `yaml:"formatGeneratedSource"`

	// WriteProducerNameInToken includes the declaring producer method's
	// name in the generated token/field identifier, trading a slightly
	// longer name for easier debugging of generated code.
	WriteProducerNameInToken bool `yaml:"writeProducerNameInToken"`

	// VerboseDiagnosticMessages asks the validator to compose more
	// detailed prose in reported diagnostics at the cost of longer
	// messages; renamed from the teacher lineage's experimental flag
	// naming since this module has no Dagger-branded error catalog of
	// its own to be "experimental" relative to.
	VerboseDiagnosticMessages bool `yaml:"verboseDiagnosticMessages"`

	// IgnoreProvisionKeyWildcards tolerates wildcard type arguments in a
	// provision's declared key instead of rejecting them outright.
	IgnoreProvisionKeyWildcards bool `yaml:"ignoreProvisionKeyWildcards"`
}

// Option customizes a Config built by New.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// WithFastInit toggles switching-provider mode.
func WithFastInit(on bool) Option {
	return optionFunc(func(c *Config) { c.FastInit = on })
}

// WithFormatGeneratedSource toggles post-emission formatting.
func WithFormatGeneratedSource(on bool) Option {
	return optionFunc(func(c *Config) { c.FormatGeneratedSource = on })
}

// WithWriteProducerNameInToken toggles including a producer's name in
// generated identifiers.
func WithWriteProducerNameInToken(on bool) Option {
	return optionFunc(func(c *Config) { c.WriteProducerNameInToken = on })
}

// WithVerboseDiagnosticMessages toggles longer validator diagnostic
// prose.
func WithVerboseDiagnosticMessages(on bool) Option {
	return optionFunc(func(c *Config) { c.VerboseDiagnosticMessages = on })
}

// WithIgnoreProvisionKeyWildcards toggles tolerance of wildcard type
// arguments in a provision key.
func WithIgnoreProvisionKeyWildcards(on bool) Option {
	return optionFunc(func(c *Config) { c.IgnoreProvisionKeyWildcards = on })
}

// New builds a Config from defaults (every knob off) and opts, applied
// in order.
func New(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt.apply(&c)
	}
	return c
}

// Load reads a digen.yaml document from r, starting from New()'s
// defaults and overlaying whatever fields the document sets.
func Load(r io.Reader) (Config, error) {
	c := New()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, err
	}
	return c, nil
}
