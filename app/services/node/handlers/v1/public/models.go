package public

import "github.com/ardanlabs/ledger/foundation/ledger/database"

// input represents an outpoint a submitted transaction wants to consume.
type input struct {
	TxID  string `json:"tx_id" validate:"required"`
	Index uint32 `json:"index"`
}

// output represents value a submitted transaction pays to an account.
type output struct {
	AccountID string `json:"account_id" validate:"required"`
	Value     uint64 `json:"value" validate:"required,gt=0"`
}

// submitTx is what clients send to add a transaction to the mempool.
type submitTx struct {
	Inputs  []input  `json:"inputs" validate:"required,min=1,dive"`
	Outputs []output `json:"outputs" validate:"required,min=1,dive"`
}

// toDatabaseTx converts the app model into a core transaction.
func toDatabaseTx(stx submitTx) (database.Tx, error) {
	inputs := make([]database.OutPoint, len(stx.Inputs))
	for i, in := range stx.Inputs {
		inputs[i] = database.OutPoint{
			TxID:  in.TxID,
			Index: in.Index,
		}
	}

	outputs := make([]database.TxOut, len(stx.Outputs))
	for i, out := range stx.Outputs {
		outputs[i] = database.TxOut{
			AccountID: database.AccountID(out.AccountID),
			Value:     out.Value,
		}
	}

	return database.NewTx(inputs, outputs)
}

// =============================================================================

// utxo represents one unspent output in API responses.
type utxo struct {
	TxID    string `json:"tx_id"`
	Index   uint32 `json:"index"`
	Account string `json:"account"`
	Value   uint64 `json:"value"`
}

// balance represents the total unspent value for an account.
type balance struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

// balances is the complete balance listing response.
type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}
