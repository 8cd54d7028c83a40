package lockmint

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/explorer"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/rpc"
)

// LockAndMint derives gateway addresses and drives single deposits through
// submission and minting. It holds no mutable state, the orchestrator owns
// the lifecycle.
type LockAndMint struct {
	network            renvm.Network
	selector           renvm.Selector
	destinationAddress string
	rpcClient          rpc.Client
	destinationChain   chain.Chain
	logger             hclog.Logger
}

func NewLockAndMint(
	network renvm.Network, rpcClient rpc.Client, destinationChain chain.Chain,
	assetSymbol string, destinationAddress string, logger hclog.Logger,
) *LockAndMint {
	return &LockAndMint{
		network:            network,
		selector:           renvm.NewSelector(assetSymbol, destinationChain.Name(), renvm.DirectionTo),
		destinationAddress: destinationAddress,
		rpcClient:          rpcClient,
		destinationChain:   destinationChain,
		logger:             logger.Named("lockmint"),
	}
}

func (a *LockAndMint) Selector() renvm.Selector {
	return a.selector
}

// GenerateGatewayAddress derives the deposit gateway address for the
// session. The same session nonce, destination and asset always produce the
// same address, anyone can re-derive and verify it.
func (a *LockAndMint) GenerateGatewayAddress(
	ctx context.Context, session *renvm.Session,
) (*GatewayInfo, error) {
	sendTo, err := a.destinationChain.DeriveAssociatedAddress(
		ctx, a.destinationAddress, a.selector.AssetSymbol)
	if err != nil {
		return nil, fmt.Errorf("could not derive recipient account: %w", err)
	}

	gPubkey, err := a.rpcClient.SelectPublicKey(ctx, a.selector.AssetSymbol)
	if err != nil {
		return nil, fmt.Errorf("could not select shard public key: %w", err)
	}

	gHash := renvm.GHash(renvm.PHash(), a.selector.Hash(), sendTo, session.Nonce)

	gatewayAddress, err := renvm.GatewayAddress(gHash, gPubkey, a.network)
	if err != nil {
		return nil, err
	}

	a.logger.Info("gateway address generated",
		"address", gatewayAddress, "nonce", session.NonceHex())

	return &GatewayInfo{
		GatewayAddress: gatewayAddress,
		SendTo:         sendTo,
		GHash:          gHash,
		GPubkey:        gPubkey,
		Nonce:          session.Nonce,
	}, nil
}

// GetDepositState computes the transient working set for one observed
// deposit, including the network transaction hash used as the idempotency
// key for submission. The hashes commit to the gateway the deposit paid
// into, not to the live session.
func (a *LockAndMint) GetDepositState(
	tx explorer.IncomingTransaction, info *GatewayInfo,
) (*renvm.State, error) {
	txidDisplay, err := common.DecodeHex(tx.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid deposit txid %q: %w", tx.ID, err)
	}

	txid := common.ReverseBytes(txidDisplay)

	sendTo, err := a.destinationChain.BytesToAddress(info.SendTo)
	if err != nil {
		return nil, err
	}

	state := renvm.State{
		GHash:   info.GHash,
		GPubkey: info.GPubkey,
		SendTo:  sendTo,
		Txid:    txid,
		TxIndex: tx.Vout,
		Amount:  tx.Value,
		NHash:   renvm.NHash(info.Nonce, txid, tx.Vout),
		PHash:   renvm.PHash(),
	}

	txHash, err := renvm.NewMintTransactionInput(state, info.Nonce).Hash(a.selector)
	if err != nil {
		return nil, err
	}

	state.TxHash = common.EncodeBase64URL(txHash.Bytes())

	return &state, nil
}

// SubmitMintTransaction submits the deposit to the bridge network and
// returns the network transaction hash. Safe to repeat, the network
// de-duplicates on the hash.
func (a *LockAndMint) SubmitMintTransaction(
	ctx context.Context, info *GatewayInfo, state *renvm.State,
) (string, error) {
	input := renvm.NewMintTransactionInput(*state, info.Nonce)

	txHash, err := input.Hash(a.selector)
	if err != nil {
		return "", err
	}

	if _, err := a.rpcClient.SubmitTx(ctx, txHash, a.selector, input); err != nil {
		return "", err
	}

	return state.TxHash, nil
}

// Mint queries the network for the signed mint and submits it to the
// destination chain. Fails while the network transaction is not done yet.
func (a *LockAndMint) Mint(
	ctx context.Context, state *renvm.State, signer chain.Signer,
) (string, error) {
	queryResponse, err := a.rpcClient.QueryTx(ctx, state.TxHash)
	if err != nil {
		return "", err
	}

	if queryResponse.TxStatus != rpc.TxStatusDone {
		return "", fmt.Errorf("transaction %s not executed yet, status %s",
			state.TxHash, queryResponse.TxStatus)
	}

	return a.destinationChain.SubmitMint(
		ctx, a.destinationAddress, a.selector.AssetSymbol, signer, queryResponse)
}
