package renvm

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/renbridge/ren-sdk-go/common"
)

// Version is the protocol version under which transactions are encoded and
// submitted.
const Version = "1"

// MintTransactionInput is the canonical field set hashed and encoded to
// produce a bridge transaction, for both the mint and the release direction.
type MintTransactionInput struct {
	// Txid is the origin chain transaction id in internal byte order
	Txid    []byte
	TxIndex uint32
	Amount  *big.Int
	Payload []byte
	PHash   common.Hash
	// To is the recipient address on the destination chain
	To      string
	Nonce   common.Hash
	NHash   common.Hash
	GPubkey []byte
	GHash   common.Hash
}

// NewMintTransactionInput assembles the input from a previously computed
// deposit state and the session nonce.
func NewMintTransactionInput(state State, nonce common.Hash) MintTransactionInput {
	return MintTransactionInput{
		Txid:    state.Txid,
		TxIndex: state.TxIndex,
		Amount:  new(big.Int).SetUint64(state.Amount),
		PHash:   state.PHash,
		To:      state.SendTo,
		Nonce:   nonce,
		NHash:   state.NHash,
		GPubkey: state.GPubkey,
		GHash:   state.GHash,
	}
}

// Serialize renders the transaction exactly as the network hashes it:
// version, selector, the typed schema descriptor and the field values.
func (input MintTransactionInput) Serialize(selector Selector) ([]byte, error) {
	amount, err := encodeU256(input.Amount)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	writeLengthPrefixed(&buf, []byte(Version))
	writeLengthPrefixed(&buf, []byte(selector.String()))
	writeTypeDescriptor(&buf)

	writeLengthPrefixed(&buf, input.Txid)

	var indexBytes [4]byte

	binary.BigEndian.PutUint32(indexBytes[:], input.TxIndex)
	buf.Write(indexBytes[:])

	buf.Write(amount[:])
	writeLengthPrefixed(&buf, input.Payload)
	buf.Write(input.PHash[:])
	writeLengthPrefixed(&buf, []byte(input.To))
	buf.Write(input.Nonce[:])
	buf.Write(input.NHash[:])
	writeLengthPrefixed(&buf, input.GPubkey)
	buf.Write(input.GHash[:])

	return buf.Bytes(), nil
}

// Hash computes the network transaction id. It is the idempotency key for
// submission: resubmitting the same input yields the same hash and the
// network de-duplicates on it.
func (input MintTransactionInput) Hash(selector Selector) (common.Hash, error) {
	serialized, err := input.Serialize(selector)
	if err != nil {
		return common.Hash{}, err
	}

	return common.Hash(sha256.Sum256(serialized)), nil
}
