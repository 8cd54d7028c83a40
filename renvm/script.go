package renvm

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/renbridge/ren-sdk-go/common"
)

// Origin chain script opcodes used in the gateway locking script.
const (
	opDrop        byte = 0x75
	opDup         byte = 0x76
	opHash160     byte = 0xa9
	opEqualVerify byte = 0x88
	opCheckSig    byte = 0xac
)

// GatewayScript builds the locking script of a deposit gateway: the gHash is
// pushed and dropped so it is committed into the script hash, followed by a
// standard pay-to-pubkey-hash check against the network's shard key.
func GatewayScript(gHash common.Hash, gPubkey []byte) ([]byte, error) {
	pubKeyHash := btcutil.Hash160(gPubkey)

	var script bytes.Buffer

	if err := writePushData(&script, gHash[:]); err != nil {
		return nil, err
	}

	script.WriteByte(opDrop)
	script.WriteByte(opDup)
	script.WriteByte(opHash160)

	if err := writePushData(&script, pubKeyHash); err != nil {
		return nil, err
	}

	script.WriteByte(opEqualVerify)
	script.WriteByte(opCheckSig)

	return script.Bytes(), nil
}

// GatewayAddress renders the pay-to-script-hash address of the gateway
// script with the network's version byte.
func GatewayAddress(gHash common.Hash, gPubkey []byte, network Network) (string, error) {
	script, err := GatewayScript(gHash, gPubkey)
	if err != nil {
		return "", err
	}

	return base58.CheckEncode(btcutil.Hash160(script), network.P2SHPrefix), nil
}

func writePushData(buf *bytes.Buffer, data []byte) error {
	// direct pushes only, enough for 20 and 32 byte items
	if len(data) == 0 || len(data) > 75 {
		return fmt.Errorf("push data length out of range: %d", len(data))
	}

	buf.WriteByte(byte(len(data)))
	buf.Write(data)

	return nil
}
