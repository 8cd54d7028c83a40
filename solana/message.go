package solana

import (
	"bytes"
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/renbridge/ren-sdk-go/common"
)

// BuildRenVMMessage assembles the message the network authority signed over
// for a mint: pHash, the amount as a 32 byte big-endian value, the selector
// hash, the recipient token account and nHash.
func BuildRenVMMessage(
	pHash []byte, amount uint64, token common.Hash, to solanago.PublicKey, nHash []byte,
) ([]byte, error) {
	amountBytes := new(big.Int).SetUint64(amount).Bytes()
	if len(amountBytes) > 32 {
		return nil, fmt.Errorf("amount magnitude exceeds 32 bytes")
	}

	var buf bytes.Buffer

	buf.Write(pHash)
	buf.Write(make([]byte, 32-len(amountBytes)))
	buf.Write(amountBytes)
	buf.Write(token.Bytes())
	buf.Write(to.Bytes())
	buf.Write(nHash)

	return buf.Bytes(), nil
}

// FixSignatureSimple normalizes the recovery byte of a 65 byte secp256k1
// signature from 0/1 to the 27/28 convention the secp program expects.
func FixSignatureSimple(sig []byte) ([]byte, error) {
	if len(sig) != 65 {
		return nil, fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}

	fixed := make([]byte, 65)
	copy(fixed, sig)

	if fixed[64] < 27 {
		fixed[64] += 27
	}

	return fixed, nil
}
