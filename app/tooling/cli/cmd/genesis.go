package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/spf13/cobra"
)

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Print the chain parameters.",
	Run:   genesisRun,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
}

func genesisRun(cmd *cobra.Command, args []string) {
	var gen genesis.Genesis
	if err := getJSON("/v1/genesis/list", &gen); err != nil {
		log.Fatal(err)
	}

	fmt.Println("ChainID:      ", gen.ChainID)
	fmt.Println("Difficulty:   ", gen.Difficulty)
	fmt.Println("MiningReward: ", gen.MiningReward)
	fmt.Println("TransPerBlock:", gen.TransPerBlock)
}
