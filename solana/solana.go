package solana

import "github.com/gagliardetto/solana-go"

// Filter represents a filter for querying program accounts by owner and offset
type Filter struct {
	Owner  solana.PublicKey // Account owner to filter by
	Offset uint64           // Byte offset of the owner field inside the account data
}
