package response

import (
	"time"

	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/lockmint"
)

type ErrorResponse struct {
	Err string `json:"err"`
}

type GatewayStateResponse struct {
	GatewayAddress     string    `json:"gatewayAddress"`
	DestinationAddress string    `json:"destinationAddress"`
	SessionNonce       string    `json:"sessionNonce"`
	SessionEndAt       time.Time `json:"sessionEndAt"`
}

type DepositResponse struct {
	ID        string     `json:"id"`
	Vout      uint32     `json:"vout"`
	Amount    uint64     `json:"amount"`
	State     string     `json:"state"`
	TxHash    string     `json:"txHash,omitempty"`
	MintTxRef string     `json:"mintTxRef,omitempty"`
	Error     string     `json:"error,omitempty"`
	MintedAt  *time.Time `json:"mintedAt,omitempty"`
	IgnoredAt *time.Time `json:"ignoredAt,omitempty"`
}

func NewDepositResponse(processingTx lockmint.ProcessingTx) DepositResponse {
	deposit := DepositResponse{
		ID:        processingTx.Tx.ID,
		Vout:      processingTx.Tx.Vout,
		Amount:    processingTx.Tx.Value,
		State:     string(processingTx.State),
		TxHash:    processingTx.TxHash,
		MintTxRef: processingTx.MintTxRef,
		MintedAt:  processingTx.MintedAt,
		IgnoredAt: processingTx.IgnoredAt,
	}

	if processingTx.Error != nil {
		deposit.Error = processingTx.Error.Error()
	}

	return deposit
}

func NewDepositsResponse(processingTxs []lockmint.ProcessingTx) []DepositResponse {
	deposits := make([]DepositResponse, len(processingTxs))
	for i, processingTx := range processingTxs {
		deposits[i] = NewDepositResponse(processingTx)
	}

	return deposits
}

type BurnsResponse struct {
	Pending  []chain.BurnDetails `json:"pending"`
	Released []chain.BurnDetails `json:"released"`
}
