// Command satcli is the thin external-collaborator CLI around the solver
// core: solve, verify, gen, and encode subcommands. Grounded on
// operator-cli's cobra command-tree layout
// (cmd/operator-cli/{main.go,bundle/}) and the teacher's own main.go for
// what the solve path prints.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flagVerbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "satcli",
		Short: "satcli is a CDCL SAT solver CLI",
		Long: `satcli decides propositional satisfiability of CNF formulas
using conflict-driven clause learning. It also bundles a random k-CNF
generator and a Bayesian-network-to-CNF encoder as separate subcommands.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagVerbose {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newGenCmd())
	root.AddCommand(newEncodeCmd())

	return root
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
