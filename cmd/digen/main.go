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

// Command digen is the command-line front end for the generator. It
// wires CLI flags and an optional digen.yaml onto a config.Config; it
// does not call the driver, because no front end for discovering
// annotated types (a real go/types-backed implementation) is wired in
// this module, and the command returns an error saying so.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-digen/digen/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath     string
		fastInit       bool
		formatSource   bool
		writeProdToken bool
		verboseDiag    bool
		ignoreWildcard bool
	)

	cmd := &cobra.Command{
		Use:   "digen [packages...]",
		Short: "Generate compile-time dependency-injection components",
		Long: "digen discovers annotated component, module, and injection-site " +
			"declarations in the given packages and generates their implementation types.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = applyFlagOverrides(cfg, cmd, fastInit, formatSource, writeProdToken, verboseDiag, ignoreWildcard)

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("digen: constructing logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			if len(args) == 0 {
				return fmt.Errorf("digen: no packages given")
			}

			logger.Info("digen invoked",
				zap.Strings("packages", args),
				zap.Bool("fastInit", cfg.FastInit),
			)
			return fmt.Errorf("digen: wiring a real front end (go/packages-backed type discovery) " +
				"is outside this module's scope; see driver.Run for the pipeline it would drive")
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "digen.yaml", "path to a digen.yaml project file")
	cmd.Flags().BoolVar(&fastInit, "fast-init", false, "use switching-provider mode")
	cmd.Flags().BoolVar(&formatSource, "format", false, "format generated source before writing it")
	cmd.Flags().BoolVar(&writeProdToken, "write-producer-token", false, "include producer names in generated identifiers")
	cmd.Flags().BoolVar(&verboseDiag, "verbose-diagnostics", false, "compose more detailed validator diagnostics")
	cmd.Flags().BoolVar(&ignoreWildcard, "ignore-provision-key-wildcards", false, "tolerate wildcard type arguments in provision keys")

	return cmd
}

// loadConfig reads path if present, falling back to config.New()'s
// defaults when no digen.yaml exists: a missing project file is not an
// error, since every knob is equally well specified from the CLI alone.
func loadConfig(path string) (config.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.New(), nil
		}
		return config.Config{}, fmt.Errorf("digen: opening %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := config.Load(f)
	if err != nil {
		return config.Config{}, fmt.Errorf("digen: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlagOverrides layers whichever boolean flags the invocation
// actually set on top of cfg, so an unset flag never clobbers a value
// digen.yaml already supplied.
func applyFlagOverrides(cfg config.Config, cmd *cobra.Command, fastInit, formatSource, writeProdToken, verboseDiag, ignoreWildcard bool) config.Config {
	if cmd.Flags().Changed("fast-init") {
		cfg.FastInit = fastInit
	}
	if cmd.Flags().Changed("format") {
		cfg.FormatGeneratedSource = formatSource
	}
	if cmd.Flags().Changed("write-producer-token") {
		cfg.WriteProducerNameInToken = writeProdToken
	}
	if cmd.Flags().Changed("verbose-diagnostics") {
		cfg.VerboseDiagnosticMessages = verboseDiag
	}
	if cmd.Flags().Changed("ignore-provision-key-wildcards") {
		cfg.IgnoreProvisionKeyWildcards = ignoreWildcard
	}
	return cfg
}
