package chain

import (
	"context"

	"github.com/renbridge/ren-sdk-go/rpc"
)

// Chain is the destination chain capability surface. One implementation per
// supported chain family; the orchestrators never branch on chain identity
// beyond dispatching through this interface.
type Chain interface {
	// Name is the chain name as it appears in selectors, e.g. "Solana"
	Name() string
	// DeriveAssociatedAddress resolves the token account on this chain that
	// receives the minted asset for the given owner address
	DeriveAssociatedAddress(ctx context.Context, ownerAddress string, assetSymbol string) ([]byte, error)
	AddressToBytes(address string) ([]byte, error)
	BytesToAddress(data []byte) (string, error)
	// SubmitMint finalizes a mint using the network's signed response.
	// Returns the chain transaction reference.
	SubmitMint(
		ctx context.Context, destinationAddress string, assetSymbol string,
		signer Signer, queryResponse *rpc.ResponseQueryTx,
	) (string, error)
	// SubmitBurn burns the wrapped asset and returns the details needed to
	// later release the native asset on the origin chain
	SubmitBurn(
		ctx context.Context, assetSymbol string, account string,
		amount uint64, recipient string, signer Signer,
	) (BurnDetails, error)
	// IsAlreadyMintedError reports whether err from SubmitMint means the
	// mint already happened, which callers treat as success
	IsAlreadyMintedError(err error) bool
	WaitForConfirmation(ctx context.Context, txRef string) error
}

// Signer produces signatures over engine-supplied bytes. Keys never enter
// the engine.
type Signer interface {
	PublicKey() []byte
	Sign(message []byte) ([]byte, error)
}

// BurnDetails is the persisted record of a burn submitted on the source
// chain, sufficient to recompute the release transaction after a crash.
type BurnDetails struct {
	// ConfirmedSignature is the source chain transaction reference
	ConfirmedSignature string `json:"confirmedSignature"`
	Nonce              uint64 `json:"nonce"`
	Recipient          string `json:"recipient"`
	Amount             uint64 `json:"amount"`
}

// Provider resolves the chain adapter and the acting account for the
// current application context.
type Provider interface {
	Chain(ctx context.Context) (Chain, error)
	Signer(ctx context.Context) (Signer, error)
}
