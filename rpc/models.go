package rpc

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
)

// Error is the error object carried by bridge network JSON-RPC responses.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *Error) Error() string {
	return e.Message
}

// TxStatus values reported by queryTx.
const (
	TxStatusConfirming = "confirming"
	TxStatusPending    = "pending"
	TxStatusExecuting  = "executing"
	TxStatusReverted   = "reverted"
	TxStatusDone       = "done"
)

type ParamsQueryTx struct {
	TxHash string `json:"txHash"`
}

type ParamsSubmitTx struct {
	Tx TxSubmission `json:"tx"`
}

type TxSubmission struct {
	Hash     string     `json:"hash"`
	Version  string     `json:"version"`
	Selector string     `json:"selector"`
	In       TypedInput `json:"in"`
}

type TypedInput struct {
	T map[string][]map[string]string `json:"t"`
	V MintValues                     `json:"v"`
}

// MintValues is the wire rendering of a MintTransactionInput: integers as
// decimal strings, byte strings as base64url.
type MintValues struct {
	Amount  string `json:"amount"`
	GHash   string `json:"ghash"`
	GPubkey string `json:"gpubkey"`
	NHash   string `json:"nhash"`
	Nonce   string `json:"nonce"`
	Payload string `json:"payload"`
	PHash   string `json:"phash"`
	To      string `json:"to"`
	Txid    string `json:"txid"`
	TxIndex string `json:"txindex"`
}

func NewMintValues(input renvm.MintTransactionInput) MintValues {
	return MintValues{
		Amount:  input.Amount.String(),
		GHash:   common.EncodeBase64URL(input.GHash.Bytes()),
		GPubkey: common.EncodeBase64URL(input.GPubkey),
		NHash:   common.EncodeBase64URL(input.NHash.Bytes()),
		Nonce:   common.EncodeBase64URL(input.Nonce.Bytes()),
		Payload: common.EncodeBase64URL(input.Payload),
		PHash:   common.EncodeBase64URL(input.PHash.Bytes()),
		To:      input.To,
		Txid:    common.EncodeBase64URL(input.Txid),
		TxIndex: strconv.FormatUint(uint64(input.TxIndex), 10),
	}
}

type ResponseSubmitTx struct {
	Tx struct {
		Hash string `json:"hash"`
	} `json:"tx"`
}

type ResponseQueryTx struct {
	Tx struct {
		Hash string      `json:"hash"`
		In   TypedValues `json:"in"`
		Out  TypedValues `json:"out"`
	} `json:"tx"`
	TxStatus string `json:"txStatus"`
}

// TypedValues is a typed value map as returned by the network, values kept
// raw until a caller asks for a specific member.
type TypedValues struct {
	V map[string]json.RawMessage `json:"v"`
}

func (tv TypedValues) String(name string) (string, error) {
	raw, ok := tv.V[name]
	if !ok {
		return "", fmt.Errorf("missing response field: %s", name)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("response field %s is not a string: %w", name, err)
	}

	return value, nil
}

func (tv TypedValues) Bytes(name string) ([]byte, error) {
	value, err := tv.String(name)
	if err != nil {
		return nil, err
	}

	return decodeBase64Any(value)
}

func (tv TypedValues) Uint64(name string) (uint64, error) {
	value, err := tv.String(name)
	if err != nil {
		return 0, err
	}

	return strconv.ParseUint(value, 10, 64)
}

type ResponseQueryBlockState struct {
	State struct {
		V map[string]AssetState `json:"v"`
	} `json:"state"`
}

type AssetState struct {
	GasCap        string  `json:"gasCap"`
	GasLimit      string  `json:"gasLimit"`
	GasPrice      string  `json:"gasPrice"`
	MinimumAmount string  `json:"minimumAmount"`
	DustAmount    string  `json:"dustAmount"`
	Shards        []Shard `json:"shards"`
}

type Shard struct {
	Shard  string `json:"shard"`
	PubKey string `json:"pubKey"`
	State  struct {
		Outpoint struct {
			Hash  string `json:"hash"`
			Index string `json:"index"`
		} `json:"outpoint"`
		Value  string `json:"value"`
		PubKey string `json:"pubKeyScript"`
	} `json:"state"`
}

type ResponseQueryConfig struct {
	Confirmations    map[string]string `json:"confirmations"`
	MaxConfirmations map[string]string `json:"maxConfirmations"`
	Network          string            `json:"network"`
	Registries       map[string]string `json:"registries"`
	Whitelist        []string          `json:"whitelist"`
}

// decodeBase64Any accepts both the standard and the url alphabet, padded or
// not. Lightnode responses are not consistent about it.
func decodeBase64Any(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("value is not base64: %q", s)
}
