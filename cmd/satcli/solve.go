package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lfreitas/cdclsat/internal/dimacs"
	"github.com/lfreitas/cdclsat/internal/sat"
)

var (
	solveGzip         bool
	solveBrancher     string
	solveMaxConflicts int64
	solveTimeout      time.Duration
	solveSeed         int64
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <file.cnf>",
		Short: "Decide satisfiability of a DIMACS CNF file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	cmd.Flags().BoolVar(&solveGzip, "gzip", false, "the input file is gzip-compressed")
	cmd.Flags().StringVar(&solveBrancher, "brancher", string(sat.VSIDS), "branching heuristic: arbitrary, random, two-choice, vsids")
	cmd.Flags().Int64Var(&solveMaxConflicts, "max-conflicts", -1, "abort after this many conflicts (<=0 means unbounded)")
	cmd.Flags().DurationVar(&solveTimeout, "timeout", 0, "abort after this duration (<=0 means unbounded)")
	cmd.Flags().Int64Var(&solveSeed, "seed", 0, "seed for randomized branching heuristics")
	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	filename := args[0]

	f := sat.NewFormula(0)
	if err := dimacs.LoadDIMACS(filename, solveGzip, f); err != nil {
		return fmt.Errorf("satcli: could not parse %q: %w", filename, err)
	}
	log.WithFields(log.Fields{
		"file":      filename,
		"variables": f.NumVariables(),
		"clauses":   len(f.Clauses()),
	}).Debug("loaded instance")

	opts := sat.DefaultOptions
	opts.Brancher = sat.BrancherKind(solveBrancher)
	opts.Seed = solveSeed
	opts.MaxConflicts = solveMaxConflicts
	opts.Timeout = solveTimeout

	start := time.Now()
	result, err := sat.Solve(f, opts)
	if err != nil {
		return fmt.Errorf("satcli: solve failed: %w", err)
	}
	log.WithFields(log.Fields{
		"conflicts": result.Conflicts,
		"elapsed":   time.Since(start),
	}).Debug("solve finished")

	fmt.Println(result.Outcome)
	return nil
}
