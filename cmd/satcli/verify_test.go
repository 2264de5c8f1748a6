package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunVerify_allMatch(t *testing.T) {
	dir := t.TempDir()
	writeCNF(t, dir, "sat.cnf", "c SATISFIABLE\np cnf 3 3\n1 0\n-1 2 0\n-2 3 0\n")
	writeCNF(t, dir, "unsat.cnf", "c UNSATISFIABLE\np cnf 1 2\n1 0\n-1 0\n")

	out := captureStdout(t, func() {
		require.NoError(t, runVerify(newVerifyCmd(), []string{dir}))
	})
	require.Contains(t, out, "OK")
	require.NotContains(t, out, "MISMATCH")
}

func TestRunVerify_mismatch(t *testing.T) {
	dir := t.TempDir()
	writeCNF(t, dir, "wrong.cnf", "c UNSATISFIABLE\np cnf 3 3\n1 0\n-1 2 0\n-2 3 0\n")

	err := runVerify(newVerifyCmd(), []string{dir})
	require.Error(t, err)
	require.Contains(t, err.Error(), "disagreed")
}

func TestRunVerify_noInstances(t *testing.T) {
	dir := t.TempDir()
	err := runVerify(newVerifyCmd(), []string{dir})
	require.Error(t, err)
}

func TestExpectedVerdict(t *testing.T) {
	dir := t.TempDir()
	path := writeCNF(t, dir, "x.cnf", "c header\nc SATISFIABLE\np cnf 0 0\n")

	got, err := expectedVerdict(path)
	require.NoError(t, err)
	require.Equal(t, "SATISFIABLE", got.String())
}

func TestExpectedVerdict_missing(t *testing.T) {
	dir := t.TempDir()
	path := writeCNF(t, dir, "x.cnf", "p cnf 0 0\n")

	_, err := expectedVerdict(path)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "no expected-verdict"))
}
