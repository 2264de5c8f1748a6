package main

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lfreitas/cdclsat/internal/dimacs"
	"github.com/lfreitas/cdclsat/internal/sat"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <dir>",
		Short: "Solve every *.cnf file in dir and check against its expected verdict",
		Long: `verify reads, from each instance, a comment line of the form
"c SATISFIABLE" or "c UNSATISFIABLE" naming the expected verdict, solves the
instance, and reports any mismatch. Exits non-zero if any instance
disagrees with its expectation.`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}
}

// expectedVerdict scans file for a "c SATISFIABLE"/"c UNSATISFIABLE" comment
// line. Per spec.md §6, verify reads the expected verdict this way rather
// than from a sidecar file.
func expectedVerdict(filename string) (sat.Outcome, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, err
		}
		defer gz.Close()
		r = gz
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "c") {
			continue
		}
		verdict := strings.TrimSpace(strings.TrimPrefix(line, "c"))
		switch verdict {
		case "SATISFIABLE":
			return sat.Satisfiable, nil
		case "UNSATISFIABLE":
			return sat.Unsatisfiable, nil
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no expected-verdict comment found in %q", filename)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := args[0]

	matches, err := filepath.Glob(filepath.Join(dir, "*.cnf"))
	if err != nil {
		return fmt.Errorf("satcli: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("satcli: no *.cnf files found in %q", dir)
	}

	var mismatches int
	for _, filename := range matches {
		want, err := expectedVerdict(filename)
		if err != nil {
			log.WithField("file", filename).Warnf("skipping: %v", err)
			continue
		}

		f := sat.NewFormula(0)
		if err := dimacs.LoadDIMACS(filename, false, f); err != nil {
			return fmt.Errorf("satcli: could not parse %q: %w", filename, err)
		}
		got, err := sat.Solve(f, sat.DefaultOptions)
		if err != nil {
			return fmt.Errorf("satcli: solve failed on %q: %w", filename, err)
		}

		if got.Outcome != want {
			mismatches++
			fmt.Printf("MISMATCH %s: want %s, got %s\n", filename, want, got.Outcome)
			continue
		}
		fmt.Printf("OK %s: %s\n", filename, got.Outcome)
	}

	if mismatches > 0 {
		return fmt.Errorf("satcli: %d instance(s) disagreed with their expected verdict", mismatches)
	}
	return nil
}
