package renvm

import "github.com/renbridge/ren-sdk-go/common"

// State is the transient working set for one deposit. It is recomputable at
// any time from the originating deposit record plus the gateway address
// response, so it is never persisted as such.
type State struct {
	GHash   common.Hash
	GPubkey []byte
	// SendTo is the destination chain token account receiving the mint
	SendTo string
	// Txid is the origin transaction id in internal byte order
	Txid    []byte
	TxIndex uint32
	Amount  uint64
	NHash   common.Hash
	PHash   common.Hash
	// TxHash is the network transaction id, base64url
	TxHash string
}
