package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/merkle"
	"github.com/ardanlabs/ledger/foundation/ledger/signature"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Block number in the chain, starting at 0.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was mined.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
	Difficulty    uint64 `json:"difficulty"`      // Threshold the leading 8 bytes of the hash must stay under.
	TransRoot     string `json:"trans_root"`      // Merkle tree root hash for the transactions in this block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  *merkle.Tree[BlockTx]
}

// NewBlock constructs an unmined block. The hash solution still needs to be
// found by a call to Mine before the block can join a chain.
func NewBlock(number uint64, timestamp time.Time, prevBlockHash string, difficulty uint64, trans []BlockTx) (Block, error) {

	// Construct a merkle tree from the transactions for this block. The
	// root of this tree is part of the header to be mined.
	tree, err := merkle.NewTree(trans)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: BlockHeader{
			Number:        number,
			PrevBlockHash: prevBlockHash,
			TimeStamp:     uint64(timestamp.UTC().Unix()),
			Nonce:         0, // Will be identified by the POW algorithm.
			Difficulty:    difficulty,
			TransRoot:     tree.RootHex(),
		},
		Trans: tree,
	}

	return nb, nil
}

// POWArgs represents the set of arguments required to construct and mine
// the next block in the chain.
type POWArgs struct {
	Number        uint64
	PrevBlockHash string
	Difficulty    uint64
	Trans         []BlockTx
	EvHandler     func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	nb, err := NewBlock(args.Number, time.Now(), args.PrevBlockHash, args.Difficulty, args.Trans)
	if err != nil {
		return Block{}, err
	}

	if err := nb.Mine(ctx, args.EvHandler); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// Hash returns the unique hash for the Block. The hash covers the header,
// which commits to every transaction hash through the merkle root, and is
// recomputed on every call.
func (b Block) Hash() string {
	return signature.Hash(b.Header)
}

// Mine performs the work of finding a valid hash for the block. The nonce
// starts at zero and is incremented until the hash, read through the
// difficulty window, is strictly below the difficulty. The search has no
// termination bound of its own, the caller cancels it through the context.
// Pointer semantics are being used since a nonce is being discovered.
func (b *Block) Mine(ctx context.Context, evHandler func(v string, args ...any)) error {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	ev("database: Mine: MINING: started: blk[%d] difficulty[%d]", b.Header.Number, b.Header.Difficulty)
	defer ev("database: Mine: MINING: completed")

	b.Header.Nonce = 0

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did the caller cancel or timeout the search.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.Hash()
		if !isHashSolved(b.Header.Difficulty, hash) {
			b.Header.Nonce++
			continue
		}

		ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, hash)
		ev("database: Mine: MINING: attempts[%d]", attempts)

		return nil
	}
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("blk[%d] hash[%s] txs[%d]", b.Header.Number, b.Hash(), len(b.Trans.Values()))
}

// =============================================================================

// isHashSolved checks the hash to make sure it complies with the POW rules.
// The leading 8 bytes of the hash, read as a big-endian unsigned integer,
// must be strictly less than the difficulty.
func isHashSolved(difficulty uint64, hash string) bool {
	return signature.ToUint64(hash) < difficulty
}

// =============================================================================

// BlockData represents what is serialized when a block moves over the wire.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []BlockTx   `json:"trans"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	blockData := BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  block.Trans.Values(),
	}

	return blockData
}

// ToBlock converts a BlockData into a Block. The stored hash is not
// trusted, accepting the block recomputes it from the header.
func ToBlock(blockData BlockData) (Block, error) {
	tree, err := merkle.NewTree(blockData.Trans)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: blockData.Header,
		Trans:  tree,
	}

	return nb, nil
}
