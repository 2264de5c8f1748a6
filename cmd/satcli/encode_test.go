package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const encodeTestModel = `BAYES
1
2
1
1 0
2 0.5 0.5
`

func TestRunEncode(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "m.uai")
	evidPath := filepath.Join(dir, "m.uai.evid")
	outPrefix := filepath.Join(dir, "out")

	require.NoError(t, os.WriteFile(modelPath, []byte(encodeTestModel), 0o644))
	require.NoError(t, os.WriteFile(evidPath, []byte("1 0 1"), 0o644))

	require.NoError(t, runEncode(newEncodeCmd(), []string{modelPath, evidPath, outPrefix}))

	cnf, err := os.ReadFile(outPrefix + ".cnf")
	require.NoError(t, err)
	require.Contains(t, string(cnf), "p cnf 4")

	weights, err := os.ReadFile(outPrefix + ".w")
	require.NoError(t, err)
	require.Contains(t, string(weights), "p 4")
	require.Contains(t, string(weights), "w 1 ")
}

func TestRunEncode_badModel(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "m.uai")
	evidPath := filepath.Join(dir, "m.uai.evid")
	require.NoError(t, os.WriteFile(modelPath, []byte("MARKOV\n"), 0o644))
	require.NoError(t, os.WriteFile(evidPath, []byte("0"), 0o644))

	err := runEncode(newEncodeCmd(), []string{modelPath, evidPath, filepath.Join(dir, "out")})
	require.Error(t, err)
}
