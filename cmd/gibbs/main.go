// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gibbs assembles a Gibbs-energy minimization problem from a YAML
// system description and reports the assembled structure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bocklund/pycalphad/gibbs"
)

var (
	verbose   bool
	inputPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gibbs",
	Short: "Assemble constrained Gibbs-energy minimization problems",
	Long: `gibbs reads a YAML description of a thermodynamic system (phases,
parameters and conditions), assembles the optimization problem — variables,
constraints, symbolic Jacobian and Hessian sparsity — and prints a summary
of the frozen structure that a numeric solver would consume.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config = zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the problem described by a system file",
	RunE:  runAssemble,
}

func runAssemble(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(inputPath)
	if err != nil {
		return err
	}
	db, conds, err := sys.build()
	if err != nil {
		return err
	}

	problem := gibbs.Problem{
		Database:   db,
		Conditions: conds,
		Logger:     logger,
	}
	asm, err := problem.Assemble()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "variables: %d\n", asm.Variables.Len())
	for i := 0; i < asm.Variables.Len(); i++ {
		fmt.Fprintf(out, "  [%d] %s\n", i, asm.Variables.Name(i))
	}
	fmt.Fprintf(out, "fixed indices: %v\n", asm.FixedIndices)
	fmt.Fprintf(out, "constraints: %d\n", len(asm.Constraints))
	for i, c := range asm.Constraints {
		fmt.Fprintf(out, "  [%d] %s (%s): %s = %s\n", i, c.Name, c.Kind, c.LHS, c.RHS)
	}
	fmt.Fprintf(out, "jacobian entries: %d\n", len(asm.Jacobian))
	fmt.Fprintf(out, "hessian entries: %d (sparsity pairs: %d)\n",
		len(asm.Hessian), asm.Sparsity.Len())
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	assembleCmd.Flags().StringVarP(&inputPath, "file", "f", "system.yaml", "system description file")
	rootCmd.AddCommand(assembleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
