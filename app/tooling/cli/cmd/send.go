package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	to    string
	value uint64
	fee   uint64
)

type txInput struct {
	TxID  string `json:"tx_id"`
	Index uint32 `json:"index"`
}

type txOutput struct {
	AccountID string `json:"account_id"`
	Value     uint64 `json:"value"`
}

type submitTx struct {
	Inputs  []txInput  `json:"inputs"`
	Outputs []txOutput `json:"outputs"`
}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send value to another account.",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account to send value to.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.Flags().Uint64VarP(&fee, "fee", "f", 0, "Fee to offer the miner.")
}

func sendRun(cmd *cobra.Command, args []string) {
	if account == "" || to == "" || value == 0 {
		log.Fatal("an account, a recipient and a value are required")
	}

	tx, err := assembleTx(account, to, value, fee)
	if err != nil {
		log.Fatal(err)
	}

	data, err := json.Marshal(tx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
}

// assembleTx selects enough of the sender's unspent outputs to cover the
// value plus the fee, paying any excess back to the sender as change.
func assembleTx(from string, to string, value uint64, fee uint64) (submitTx, error) {
	utxos, err := fetchUTXOs(from)
	if err != nil {
		return submitTx{}, err
	}

	need := value + fee

	var inputs []txInput
	var funded uint64
	for _, u := range utxos {
		inputs = append(inputs, txInput{TxID: u.TxID, Index: u.Index})
		funded += u.Value
		if funded >= need {
			break
		}
	}

	if funded < need {
		return submitTx{}, fmt.Errorf("insufficient funds: have %d, need %d", funded, need)
	}

	outputs := []txOutput{{AccountID: to, Value: value}}
	if change := funded - need; change > 0 {
		outputs = append(outputs, txOutput{AccountID: from, Value: change})
	}

	return submitTx{Inputs: inputs, Outputs: outputs}, nil
}
