package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunGen_writesRequestedCount(t *testing.T) {
	dir := t.TempDir()
	genVars, genClauses, genK, genCount, genOutDir, genSuite, genSeed = 10, 20, 3, 3, dir, false, 1

	require.NoError(t, runGen(newGenCmd(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.Equal(t, ".cnf", filepath.Ext(e.Name()))
	}
}

func TestRunGen_suite(t *testing.T) {
	dir := t.TempDir()
	genSuite, genOutDir, genSeed = true, dir, 1

	require.NoError(t, runGen(newGenCmd(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}
