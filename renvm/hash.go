package renvm

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/renbridge/ren-sdk-go/common"
)

// Protocol digests. All four must be recomputable by every other
// implementation of the protocol, so the concatenation order of the inputs
// is fixed and must not change.

// SHash is the digest of the selector's canonical string form.
func SHash(selector Selector) common.Hash {
	return common.Hash(crypto.Keccak256([]byte(selector.String())))
}

// PHash is the digest of the (currently always empty) auxiliary payload.
func PHash() common.Hash {
	return common.Hash(crypto.Keccak256(nil))
}

// NHash binds a deposit nonce to a specific origin chain output, preventing
// replay of the same nonce against a different deposit. txid is in internal
// byte order.
func NHash(nonce common.Hash, txid []byte, txIndex uint32) common.Hash {
	var indexBytes [4]byte

	binary.BigEndian.PutUint32(indexBytes[:], txIndex)

	return common.Hash(crypto.Keccak256(nonce[:], txid, indexBytes[:]))
}

// GHash is the digest embedded into the gateway locking address. The same
// (to, tokenIdentifier, nonce) triple always produces the same gHash and
// therefore the same gateway address.
func GHash(pHash common.Hash, sHash common.Hash, to []byte, nonce common.Hash) common.Hash {
	return common.Hash(crypto.Keccak256(pHash[:], sHash[:], to, nonce[:]))
}
