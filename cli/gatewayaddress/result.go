package cligatewayaddress

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/renbridge/ren-sdk-go/common"
)

type CmdResult struct {
	gatewayAddress string
	selector       string
	nonce          common.Hash
	gHash          common.Hash
	network        string
}

func (r CmdResult) GetOutput() string {
	var buffer bytes.Buffer

	_, _ = buffer.WriteString(common.FormatKV([]string{
		fmt.Sprintf("Gateway Address|%s", r.gatewayAddress),
		fmt.Sprintf("Selector|%s", r.selector),
		fmt.Sprintf("Network|%s", r.network),
		fmt.Sprintf("Session Nonce|%s", hex.EncodeToString(r.nonce[:])),
		fmt.Sprintf("GHash|%s", hex.EncodeToString(r.gHash[:])),
	}))

	return buffer.String()
}
