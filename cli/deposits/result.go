package clideposits

import (
	"bytes"
	"fmt"

	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/lockmint"
	"github.com/ryanuber/columnize"
)

type CmdResult struct {
	GatewayAddress string                  `json:"gatewayAddress,omitempty"`
	Deposits       []lockmint.ProcessingTx `json:"deposits"`
	ShowBurns      bool                    `json:"-"`
	PendingBurns   []chain.BurnDetails     `json:"pendingBurns,omitempty"`
	ReleasedBurns  []chain.BurnDetails     `json:"releasedBurns,omitempty"`
}

func (r CmdResult) GetOutput() string {
	var buffer bytes.Buffer

	if r.GatewayAddress != "" {
		_, _ = buffer.WriteString(fmt.Sprintf("Gateway Address: %s\n\n", r.GatewayAddress))
	}

	if len(r.Deposits) == 0 {
		_, _ = buffer.WriteString("No deposits\n")
	} else {
		rows := make([]string, 0, len(r.Deposits)+1)
		rows = append(rows, "ID|Vout|Amount|State|Tx Hash|Mint Tx|Error")

		for _, deposit := range r.Deposits {
			errorMessage := ""
			if deposit.Error != nil {
				errorMessage = deposit.Error.Message
			}

			rows = append(rows, fmt.Sprintf("%s|%d|%d|%s|%s|%s|%s",
				deposit.Tx.ID, deposit.Tx.Vout, deposit.Tx.Value, deposit.State,
				deposit.TxHash, deposit.MintTxRef, errorMessage))
		}

		_, _ = buffer.WriteString(columnize.SimpleFormat(rows))
		_, _ = buffer.WriteString("\n")
	}

	if r.ShowBurns {
		_, _ = buffer.WriteString("\n")
		writeBurns(&buffer, "Pending Burns", r.PendingBurns)
		_, _ = buffer.WriteString("\n")
		writeBurns(&buffer, "Released Burns", r.ReleasedBurns)
	}

	return buffer.String()
}

func writeBurns(buffer *bytes.Buffer, title string, burns []chain.BurnDetails) {
	_, _ = buffer.WriteString(title + ":\n")

	if len(burns) == 0 {
		_, _ = buffer.WriteString("  none\n")

		return
	}

	rows := make([]string, 0, len(burns)+1)
	rows = append(rows, "Signature|Nonce|Recipient|Amount")

	for _, burn := range burns {
		rows = append(rows, fmt.Sprintf("%s|%d|%s|%d",
			burn.ConfirmedSignature, burn.Nonce, burn.Recipient, burn.Amount))
	}

	_, _ = buffer.WriteString(columnize.SimpleFormat(rows))
	_, _ = buffer.WriteString("\n")
}
