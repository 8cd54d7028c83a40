package cligatewayaddress

import (
	"encoding/base64"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/spf13/cobra"
)

const (
	toFlag               = "to"
	gPubkeyFlag          = "gpubkey"
	assetFlag            = "asset"
	destinationChainFlag = "destination-chain"
	networkFlag          = "network"
	dayFlag              = "day"

	toFlagDesc               = "token account on the destination chain that receives the mint"
	gPubkeyFlagDesc          = "base64 encoded shard public key of the bridge network"
	assetFlagDesc            = "asset symbol"
	destinationChainFlagDesc = "destination chain name"
	networkFlagDesc          = "bridge network (mainnet, testnet)"
	dayFlagDesc              = "session day as days since unix epoch, defaults to today"
)

type gatewayAddressParams struct {
	to               string
	gPubkey          string
	asset            string
	destinationChain string
	network          string
	day              int64
}

func (ip *gatewayAddressParams) validateFlags() error {
	if ip.to == "" {
		return fmt.Errorf("--%s flag not specified", toFlag)
	}

	if _, err := solanago.PublicKeyFromBase58(ip.to); err != nil {
		return fmt.Errorf("invalid --%s flag: %w", toFlag, err)
	}

	if ip.gPubkey == "" {
		return fmt.Errorf("--%s flag not specified", gPubkeyFlag)
	}

	if _, err := base64.StdEncoding.DecodeString(ip.gPubkey); err != nil {
		return fmt.Errorf("invalid --%s flag: %w", gPubkeyFlag, err)
	}

	if _, err := renvm.NetworkByName(ip.network); err != nil {
		return fmt.Errorf("invalid --%s flag: %w", networkFlag, err)
	}

	return nil
}

func (ip *gatewayAddressParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ip.to,
		toFlag,
		"",
		toFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.gPubkey,
		gPubkeyFlag,
		"",
		gPubkeyFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.asset,
		assetFlag,
		"BTC",
		assetFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.destinationChain,
		destinationChainFlag,
		"Solana",
		destinationChainFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.network,
		networkFlag,
		renvm.Testnet.Name,
		networkFlagDesc,
	)

	cmd.Flags().Int64Var(
		&ip.day,
		dayFlag,
		-1,
		dayFlagDesc,
	)
}

func (ip *gatewayAddressParams) Execute() (common.ICommandResult, error) {
	network, err := renvm.NetworkByName(ip.network)
	if err != nil {
		return nil, err
	}

	gPubkey, err := base64.StdEncoding.DecodeString(ip.gPubkey)
	if err != nil {
		return nil, err
	}

	to, err := solanago.PublicKeyFromBase58(ip.to)
	if err != nil {
		return nil, err
	}

	at := time.Now()
	if ip.day >= 0 {
		at = time.Unix(ip.day*86400, 0).UTC()
	}

	nonce := renvm.SessionNonce(at)
	selector := renvm.NewSelector(ip.asset, ip.destinationChain, renvm.DirectionTo)
	gHash := renvm.GHash(renvm.PHash(), selector.Hash(), to.Bytes(), nonce)

	address, err := renvm.GatewayAddress(gHash, gPubkey, network)
	if err != nil {
		return nil, err
	}

	return &CmdResult{
		gatewayAddress: address,
		selector:       selector.String(),
		nonce:          nonce,
		gHash:          gHash,
		network:        network.Name,
	}, nil
}
