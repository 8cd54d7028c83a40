package burnrelease

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/rpc"
)

// BurnAndRelease burns the wrapped asset on the source chain and releases
// the underlying funds through the bridge network. Stateless, the
// orchestrator owns persistence and retries.
type BurnAndRelease struct {
	// releaseSelector identifies the release leg, e.g. "BTC/toBitcoin".
	// Its hash seeds the gHash of the release.
	releaseSelector renvm.Selector
	// burnSelector identifies the burn leg, e.g. "BTC/fromSolana".
	// The network transaction is encoded and hashed under it.
	burnSelector renvm.Selector
	sourceChain  chain.Chain
	rpcClient    rpc.Client
	logger       hclog.Logger
}

func NewBurnAndRelease(
	rpcClient rpc.Client, sourceChain chain.Chain,
	assetSymbol string, releaseChainName string, logger hclog.Logger,
) *BurnAndRelease {
	return &BurnAndRelease{
		releaseSelector: renvm.NewSelector(assetSymbol, releaseChainName, renvm.DirectionTo),
		burnSelector:    renvm.NewSelector(assetSymbol, sourceChain.Name(), renvm.DirectionFrom),
		sourceChain:     sourceChain,
		rpcClient:       rpcClient,
		logger:          logger.Named("burnrelease"),
	}
}

func (a *BurnAndRelease) BurnSelector() renvm.Selector {
	return a.burnSelector
}

// SubmitBurnTransaction burns amount from the account's token balance,
// recording the release recipient on chain. The returned details must be
// persisted before attempting the release.
func (a *BurnAndRelease) SubmitBurnTransaction(
	ctx context.Context, account string, amount uint64, recipient string, signer chain.Signer,
) (chain.BurnDetails, error) {
	// fail before burning if the recipient cannot be encoded for release
	if _, err := AddressToBytes(recipient); err != nil {
		return chain.BurnDetails{}, err
	}

	details, err := a.sourceChain.SubmitBurn(
		ctx, a.burnSelector.AssetSymbol, account, amount, recipient, signer)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	a.logger.Info("burn submitted", "signature", details.ConfirmedSignature,
		"nonce", details.Nonce, "recipient", details.Recipient, "amount", details.Amount)

	return details, nil
}

// WaitForBurnConfirmation blocks until the source chain finalizes the burn
// transaction. The release is computed from the burn signature alone, a
// dropped burn must never reach the network.
func (a *BurnAndRelease) WaitForBurnConfirmation(ctx context.Context, details chain.BurnDetails) error {
	return a.sourceChain.WaitForConfirmation(ctx, details.ConfirmedSignature)
}

// GetBurnState recomputes the protocol hashes for a persisted burn. The
// burn transaction reference serves as the origin txid and the burn count
// as the nonce, so the state is recomputable after a crash from the
// persisted details alone.
func (a *BurnAndRelease) GetBurnState(details chain.BurnDetails) (*BurnState, error) {
	txid := base58.Decode(details.ConfirmedSignature)
	if len(txid) == 0 {
		return nil, fmt.Errorf("invalid burn signature: %q", details.ConfirmedSignature)
	}

	recipientBytes, err := AddressToBytes(details.Recipient)
	if err != nil {
		return nil, err
	}

	var nonce common.Hash

	binary.BigEndian.PutUint64(nonce[common.HashSize-8:], details.Nonce)

	pHash := renvm.PHash()
	nHash := renvm.NHash(nonce, txid, 0)
	gHash := renvm.GHash(pHash, a.releaseSelector.Hash(), recipientBytes, nonce)

	state := renvm.State{
		GHash:   gHash,
		SendTo:  details.Recipient,
		Txid:    txid,
		TxIndex: 0,
		Amount:  details.Amount,
		NHash:   nHash,
		PHash:   pHash,
	}

	txHash, err := renvm.NewMintTransactionInput(state, nonce).Hash(a.burnSelector)
	if err != nil {
		return nil, err
	}

	state.TxHash = common.EncodeBase64URL(txHash.Bytes())

	return &BurnState{State: state, Nonce: nonce}, nil
}

// Release submits the burn to the bridge network. Safe to repeat, the
// network de-duplicates on the transaction hash.
func (a *BurnAndRelease) Release(ctx context.Context, burnState *BurnState) (string, error) {
	input := renvm.NewMintTransactionInput(burnState.State, burnState.Nonce)

	txHash, err := input.Hash(a.burnSelector)
	if err != nil {
		return "", err
	}

	if _, err := a.rpcClient.SubmitTx(ctx, txHash, a.burnSelector, input); err != nil {
		return "", err
	}

	return burnState.State.TxHash, nil
}

// Fee estimates what the network deducts from the released amount.
func (a *BurnAndRelease) Fee(ctx context.Context) (uint64, error) {
	return a.rpcClient.EstimateTransactionFee(ctx, a.burnSelector.AssetSymbol)
}
