package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lfreitas/cdclsat/internal/uai"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <model.uai> <evidence.uai.evid> <out-prefix>",
		Short: "Encode a Bayesian network and its evidence into a weighted CNF",
		Long: `encode translates a .uai model and its .uai.evid evidence file
into <out-prefix>.cnf (the DIMACS CNF) and <out-prefix>.w (the companion
weights file). The solver core consumes only the CNF; weights are opaque
to it.`,
		Args: cobra.ExactArgs(3),
		RunE: runEncode,
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	modelFile, evidFile, outPrefix := args[0], args[1], args[2]

	mf, err := os.Open(modelFile)
	if err != nil {
		return fmt.Errorf("satcli: %w", err)
	}
	defer mf.Close()

	graph, err := uai.Parse(mf)
	if err != nil {
		return fmt.Errorf("satcli: could not parse %q: %w", modelFile, err)
	}

	ef, err := os.Open(evidFile)
	if err != nil {
		return fmt.Errorf("satcli: %w", err)
	}
	defer ef.Close()

	weights, clauses := graph.ToFormula()
	evidClauses, err := graph.EvidenceToFormula(ef)
	if err != nil {
		return fmt.Errorf("satcli: could not parse %q: %w", evidFile, err)
	}
	clauses = append(clauses, evidClauses...)

	cnfFile, err := os.Create(outPrefix + ".cnf")
	if err != nil {
		return fmt.Errorf("satcli: %w", err)
	}
	defer cnfFile.Close()
	if err := uai.WriteFormulaFile(cnfFile, weights, clauses); err != nil {
		return fmt.Errorf("satcli: %w", err)
	}

	wFile, err := os.Create(outPrefix + ".w")
	if err != nil {
		return fmt.Errorf("satcli: %w", err)
	}
	defer wFile.Close()
	if err := uai.WriteWeightsFile(wFile, weights); err != nil {
		return fmt.Errorf("satcli: %w", err)
	}

	log.WithFields(log.Fields{
		"variables": len(weights),
		"clauses":   len(clauses),
		"out":       outPrefix,
	}).Info("encoded Bayesian network to weighted CNF")
	return nil
}
