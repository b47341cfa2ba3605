package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

type utxo struct {
	TxID    string `json:"tx_id"`
	Index   uint32 `json:"index"`
	Account string `json:"account"`
	Value   uint64 `json:"value"`
}

var utxoCmd = &cobra.Command{
	Use:   "utxo",
	Short: "Print the unspent outputs for an account, or all accounts.",
	Run:   utxoRun,
}

func init() {
	rootCmd.AddCommand(utxoCmd)
}

func utxoRun(cmd *cobra.Command, args []string) {
	utxos, err := fetchUTXOs(account)
	if err != nil {
		log.Fatal(err)
	}

	for _, u := range utxos {
		fmt.Printf("TxID: %s  Index: %d  Account: %s  Value: %d\n", u.TxID, u.Index, u.Account, u.Value)
	}
}

// fetchUTXOs retrieves the unspent outputs from the node. An empty account
// retrieves the whole set.
func fetchUTXOs(account string) ([]utxo, error) {
	path := "/v1/utxo/list"
	if account != "" {
		path += "/" + account
	}

	var utxos []utxo
	if err := getJSON(path, &utxos); err != nil {
		return nil, err
	}

	return utxos, nil
}
