package lockmint

import (
	"fmt"
	"time"

	"github.com/renbridge/ren-sdk-go/explorer"
)

type MintState string

const (
	MintStateConfirming MintState = "Confirming"
	MintStateConfirmed  MintState = "Confirmed"
	MintStateSubmitted  MintState = "Submitted"
	MintStateMinted     MintState = "Minted"
	MintStateIgnored    MintState = "Ignored"
)

// maxVote bounds how many per-confirmation timestamps are recorded per
// deposit.
const maxVote = 3

// ProcessingTx is the persisted unit of work: one observed deposit and where
// it is in its lifecycle. A given deposit id appears at most once in the
// store.
type ProcessingTx struct {
	Tx    explorer.IncomingTransaction `json:"tx"`
	State MintState                    `json:"state"`
	// Gateway is the gateway the deposit paid into, captured on first
	// observation. Hashes are recomputed against this binding, not the live
	// session, so a session rotation cannot orphan the deposit
	Gateway *GatewayInfo `json:"gateway,omitempty"`
	// IsProcessing guards the entry against concurrent advancement. Cleared
	// on orchestrator restart, a crash must never leave an entry stuck.
	IsProcessing bool `json:"isProcessing"`
	// TxHash is the bridge network transaction id, set once submitted
	TxHash string `json:"txHash,omitempty"`
	// MintTxRef is the destination chain transaction reference of the mint
	MintTxRef string           `json:"mintTxRef,omitempty"`
	Error     *ProcessingError `json:"error,omitempty"`

	// VoteTimes records when each confirmation count was first observed
	VoteTimes   map[uint64]time.Time `json:"voteTimes,omitempty"`
	ConfirmedAt *time.Time           `json:"confirmedAt,omitempty"`
	SubmittedAt *time.Time           `json:"submittedAt,omitempty"`
	MintedAt    *time.Time           `json:"mintedAt,omitempty"`
	IgnoredAt   *time.Time           `json:"ignoredAt,omitempty"`
}

func NewProcessingTx(
	tx explorer.IncomingTransaction, gateway *GatewayInfo, confirmations uint64, at time.Time,
) *ProcessingTx {
	processingTx := &ProcessingTx{
		Tx:      tx,
		State:   MintStateConfirming,
		Gateway: gateway,
	}
	processingTx.Vote(confirmations, at)

	return processingTx
}

// Vote records the first time a confirmation count was observed, up to
// maxVote entries.
func (p *ProcessingTx) Vote(confirmations uint64, at time.Time) {
	if p.VoteTimes == nil {
		p.VoteTimes = map[uint64]time.Time{}
	}

	if _, voted := p.VoteTimes[confirmations]; voted || len(p.VoteTimes) >= maxVote {
		return
	}

	p.VoteTimes[confirmations] = at
}

func (p *ProcessingTx) ToConfirmed(at time.Time) {
	p.State = MintStateConfirmed
	if p.ConfirmedAt == nil {
		p.ConfirmedAt = &at
	}
}

func (p *ProcessingTx) ToSubmitted(txHash string, at time.Time) {
	p.State = MintStateSubmitted
	p.TxHash = txHash

	if p.SubmittedAt == nil {
		p.SubmittedAt = &at
	}
}

func (p *ProcessingTx) ToMinted(mintTxRef string, at time.Time) {
	p.State = MintStateMinted
	p.MintTxRef = mintTxRef
	p.MintedAt = &at
}

func (p *ProcessingTx) ToIgnored(processingError ProcessingError, at time.Time) {
	p.State = MintStateIgnored
	p.Error = &processingError
	p.IgnoredAt = &at
}

// IsTransitionPossible rejects any transition that would move a deposit
// backwards or out of a terminal state. Repeating the current state is
// allowed, observation and submission are idempotent.
func (p *ProcessingTx) IsTransitionPossible(newState MintState) error {
	isInvalidTransition := false

	switch p.State {
	case MintStateConfirming:

	case MintStateConfirmed:
		isInvalidTransition = newState == MintStateConfirming

	case MintStateSubmitted:
		isInvalidTransition = newState == MintStateConfirming ||
			newState == MintStateConfirmed

	case MintStateMinted:
		isInvalidTransition = newState != MintStateMinted

	case MintStateIgnored:
		isInvalidTransition = true
	}

	if isInvalidTransition {
		return fmt.Errorf("deposit %s invalid transition %s -> %s", p.Tx.ID, p.State, newState)
	}

	return nil
}
