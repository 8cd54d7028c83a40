package renvm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
)

// Kind bytes of the typed value encoding used by the bridge network. The
// transaction hash covers the type descriptor as well as the values, so
// these must match the network side exactly.
const (
	kindU32     byte = 4
	kindU256    byte = 7
	kindString  byte = 10
	kindBytes   byte = 11
	kindBytes32 byte = 12
	kindStruct  byte = 20
)

// mintFields is the canonical field schema of a transfer transaction. Order
// is part of the wire format.
var mintFields = []struct {
	name string
	typ  string
	kind byte
}{
	{"txid", "bytes", kindBytes},
	{"txindex", "u32", kindU32},
	{"amount", "u256", kindU256},
	{"payload", "bytes", kindBytes},
	{"phash", "bytes32", kindBytes32},
	{"to", "string", kindString},
	{"nonce", "bytes32", kindBytes32},
	{"nhash", "bytes32", kindBytes32},
	{"gpubkey", "bytes", kindBytes},
	{"ghash", "bytes32", kindBytes32},
}

// MintTransactionTypeDescriptor is the JSON form of the schema, sent as the
// "t" member of submitTx params.
func MintTransactionTypeDescriptor() map[string][]map[string]string {
	structFields := make([]map[string]string, len(mintFields))

	for i, field := range mintFields {
		structFields[i] = map[string]string{field.name: field.typ}
	}

	return map[string][]map[string]string{"struct": structFields}
}

func writeLengthPrefixed(buf *bytes.Buffer, data []byte) {
	var length [4]byte

	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	buf.Write(length[:])
	buf.Write(data)
}

func writeTypeDescriptor(buf *bytes.Buffer) {
	buf.WriteByte(kindStruct)

	var count [4]byte

	binary.BigEndian.PutUint32(count[:], uint32(len(mintFields)))
	buf.Write(count[:])

	for _, field := range mintFields {
		writeLengthPrefixed(buf, []byte(field.name))
		buf.WriteByte(field.kind)
	}
}

// encodeU256 renders a non-negative integer as a 32 byte big-endian value.
// Fails when the magnitude does not fit.
func encodeU256(value *big.Int) ([32]byte, error) {
	var result [32]byte

	if value == nil || value.Sign() < 0 {
		return result, fmt.Errorf("amount must be a non-negative integer, got %v", value)
	}

	raw := value.Bytes()
	if len(raw) > 32 {
		return result, fmt.Errorf("amount magnitude exceeds 32 bytes: %s", value)
	}

	copy(result[32-len(raw):], raw)

	return result, nil
}
