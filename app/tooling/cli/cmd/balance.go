package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

type balance struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance for an account, or all accounts.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	path := "/v1/balances/list"
	if account != "" {
		path += "/" + account
	}

	var bals balances
	if err := getJSON(path, &bals); err != nil {
		log.Fatal(err)
	}

	fmt.Println("LatestBlock:", bals.LatestBlock)
	fmt.Println("Uncommitted:", bals.Uncommitted)
	for _, bal := range bals.Balances {
		fmt.Printf("Account: %s  Balance: %d\n", bal.Account, bal.Balance)
	}
}
