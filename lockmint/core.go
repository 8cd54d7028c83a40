package lockmint

import (
	"time"

	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/explorer"
	"github.com/renbridge/ren-sdk-go/renvm"
)

// GatewayInfo is the gateway address derivation result, computed once per
// session and cached for its lifetime.
type GatewayInfo struct {
	GatewayAddress string      `json:"gatewayAddress"`
	SendTo         []byte      `json:"sendTo"`
	GHash          common.Hash `json:"gHash"`
	GPubkey        []byte      `json:"gPubkey"`
	// Nonce is the session nonce the address was derived from
	Nonce common.Hash `json:"nonce"`
}

// PersistentStore is the durable state consumed by the lock and mint
// orchestrator. Getters return nil without error when nothing is stored.
// Mark operations are read-modify-write by deposit id and must reject
// transitions the deposit state machine forbids.
type PersistentStore interface {
	GetSession() (*renvm.Session, error)
	SaveSession(session *renvm.Session) error

	GetGatewayInfo() (*GatewayInfo, error)
	SaveGatewayInfo(info *GatewayInfo) error

	GetProcessingTxs() ([]ProcessingTx, error)
	GetProcessingTx(id string) (*ProcessingTx, error)

	// MarkAsConfirming and MarkAsConfirmed create the entry on first
	// observation, bound to the gateway the deposit paid into
	MarkAsConfirming(tx explorer.IncomingTransaction, gateway *GatewayInfo, confirmations uint64, at time.Time) error
	MarkAsConfirmed(tx explorer.IncomingTransaction, gateway *GatewayInfo, confirmations uint64, at time.Time) error
	MarkAsSubmitted(id string, txHash string, at time.Time) error
	MarkAsMinted(id string, mintTxRef string, at time.Time) error
	MarkAsIgnored(id string, processingError ProcessingError, at time.Time) error

	// MarkAsProcessing acquires the processing guard for id, returning false
	// if another task already holds it
	MarkAsProcessing(id string) (bool, error)
	MarkAllAsNotProcessing() error

	// ClearSession removes the persisted session and its gateway info.
	// Processing txs are kept, deposits made to earlier gateways must keep
	// draining after a rotation
	ClearSession() error
}
