package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/spf13/cobra"
)

var (
	from string
	upto string
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print blocks from the chain.",
	Run:   blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVar(&from, "from", "latest", "First block number, or latest.")
	blocksCmd.Flags().StringVar(&upto, "to", "latest", "Last block number, or latest.")
}

func blocksRun(cmd *cobra.Command, args []string) {
	var blocks []database.BlockData
	if err := getJSON(fmt.Sprintf("/v1/blocks/list/%s/%s", from, upto), &blocks); err != nil {
		log.Fatal(err)
	}

	for _, block := range blocks {
		fmt.Println("Number:   ", block.Header.Number)
		fmt.Println("Hash:     ", block.Hash)
		fmt.Println("PrevHash: ", block.Header.PrevBlockHash)
		fmt.Println("Nonce:    ", block.Header.Nonce)
		fmt.Println("TransRoot:", block.Header.TransRoot)
		fmt.Println("Trans:    ", len(block.Trans))
		fmt.Print("\n")
	}
}
