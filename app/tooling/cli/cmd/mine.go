package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Signal the node to start mining a block.",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := getJSON("/v1/mining/signal", &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Status)
}
