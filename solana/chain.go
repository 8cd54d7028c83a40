package solana

import (
	"context"
	"fmt"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/rpc"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const chainName = "Solana"

// wrapped asset decimals used by the gateway programs
const wrappedTokenDecimals = 8

// ProgramClient is the narrow Solana RPC surface the chain adapter needs.
// The actual transport, fee payer handling and preflight behavior live
// outside the engine.
type ProgramClient interface {
	AccountData(ctx context.Context, account solanago.PublicKey) ([]byte, error)
	// ExecuteInstructions builds, signs with signer and sends one
	// transaction, returning its signature
	ExecuteInstructions(
		ctx context.Context, instructions []solanago.Instruction, signer chain.Signer,
	) (string, error)
	WaitForSignature(ctx context.Context, signature string) error
}

// ChainImpl is the Solana destination chain adapter.
type ChainImpl struct {
	registry *GatewayRegistryData
	client   ProgramClient
	logger   hclog.Logger
}

var _ chain.Chain = (*ChainImpl)(nil)

// LoadChain fetches and decodes the gateway registry account, which maps
// selector hashes to the gateway programs deployed on this network.
func LoadChain(
	ctx context.Context, network renvm.Network, client ProgramClient, logger hclog.Logger,
) (*ChainImpl, error) {
	stateAccount, err := RegistryStateAccount(network)
	if err != nil {
		return nil, err
	}

	data, err := client.AccountData(ctx, stateAccount)
	if err != nil {
		return nil, fmt.Errorf("could not fetch gateway registry: %w", err)
	}

	registry, err := DecodeGatewayRegistry(data)
	if err != nil {
		return nil, err
	}

	return &ChainImpl{
		registry: registry,
		client:   client,
		logger:   logger.Named("solana"),
	}, nil
}

func (c *ChainImpl) Name() string {
	return chainName
}

func (c *ChainImpl) toSelectorHash(assetSymbol string) common.Hash {
	return renvm.SHash(renvm.NewSelector(assetSymbol, chainName, renvm.DirectionTo))
}

func (c *ChainImpl) tokenMint(assetSymbol string) (program, mint solanago.PublicKey, err error) {
	sHash := c.toSelectorHash(assetSymbol)

	program, err = c.registry.ResolveTokenGatewayContract(sHash)
	if err != nil {
		return solanago.PublicKey{}, solanago.PublicKey{}, err
	}

	mint, err = SPLTokenPubkey(program, sHash)
	if err != nil {
		return solanago.PublicKey{}, solanago.PublicKey{}, err
	}

	return program, mint, nil
}

func (c *ChainImpl) DeriveAssociatedAddress(
	ctx context.Context, ownerAddress string, assetSymbol string,
) ([]byte, error) {
	owner, err := solanago.PublicKeyFromBase58(ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid owner address: %w", err)
	}

	_, mint, err := c.tokenMint(assetSymbol)
	if err != nil {
		return nil, err
	}

	associated, _, err := solanago.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	return associated.Bytes(), nil
}

func (c *ChainImpl) AddressToBytes(address string) ([]byte, error) {
	key, err := solanago.PublicKeyFromBase58(address)
	if err != nil {
		return nil, err
	}

	return key.Bytes(), nil
}

func (c *ChainImpl) BytesToAddress(data []byte) (string, error) {
	if len(data) != solanago.PublicKeyLength {
		return "", fmt.Errorf("address must be %d bytes, got %d", solanago.PublicKeyLength, len(data))
	}

	return solanago.PublicKeyFromBytes(data).String(), nil
}

func (c *ChainImpl) SubmitMint(
	ctx context.Context, destinationAddress string, assetSymbol string,
	signer chain.Signer, queryResponse *rpc.ResponseQueryTx,
) (string, error) {
	pHash, err := queryResponse.Tx.In.Bytes("phash")
	if err != nil {
		return "", err
	}

	nHash, err := queryResponse.Tx.In.Bytes("nhash")
	if err != nil {
		return "", err
	}

	amount, err := queryResponse.Tx.Out.Uint64("amount")
	if err != nil {
		return "", err
	}

	sig, err := queryResponse.Tx.Out.Bytes("sig")
	if err != nil {
		return "", err
	}

	fixedSig, err := FixSignatureSimple(sig)
	if err != nil {
		return "", err
	}

	sHash := c.toSelectorHash(assetSymbol)

	program, mint, err := c.tokenMint(assetSymbol)
	if err != nil {
		return "", err
	}

	gatewayAccount, err := GatewayStateAccount(program)
	if err != nil {
		return "", err
	}

	mintAuthority, err := MintAuthority(program, mint)
	if err != nil {
		return "", err
	}

	recipientBytes, err := c.DeriveAssociatedAddress(ctx, destinationAddress, assetSymbol)
	if err != nil {
		return "", err
	}

	recipient := solanago.PublicKeyFromBytes(recipientBytes)

	message, err := BuildRenVMMessage(pHash, amount, sHash, recipient, nHash)
	if err != nil {
		return "", err
	}

	mintLogAccount, err := MintLogAccount(program, ethcrypto.Keccak256(message))
	if err != nil {
		return "", err
	}

	stateData, err := c.client.AccountData(ctx, gatewayAccount)
	if err != nil {
		return "", fmt.Errorf("could not fetch gateway state: %w", err)
	}

	gatewayState, err := DecodeGatewayState(stateData)
	if err != nil {
		return "", err
	}

	payer := solanago.PublicKeyFromBytes(signer.PublicKey())

	mintInstruction := MintInstruction(
		payer, gatewayAccount, mint, recipient, mintLogAccount, mintAuthority, program)

	secpInstruction, err := SecpInstruction(
		gatewayState.RenVMAuthority[:], message, fixedSig[:64], fixedSig[64]-27, 1)
	if err != nil {
		return "", err
	}

	c.logger.Debug("submitting mint", "asset", assetSymbol,
		"recipient", recipient.String(), "amount", amount)

	return c.client.ExecuteInstructions(
		ctx, []solanago.Instruction{mintInstruction, secpInstruction}, signer)
}

func (c *ChainImpl) SubmitBurn(
	ctx context.Context, assetSymbol string, account string,
	amount uint64, recipient string, signer chain.Signer,
) (chain.BurnDetails, error) {
	owner, err := solanago.PublicKeyFromBase58(account)
	if err != nil {
		return chain.BurnDetails{}, fmt.Errorf("invalid account address: %w", err)
	}

	program, mint, err := c.tokenMint(assetSymbol)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	sourceBytes, err := c.DeriveAssociatedAddress(ctx, account, assetSymbol)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	source := solanago.PublicKeyFromBytes(sourceBytes)

	gatewayAccount, err := GatewayStateAccount(program)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	stateData, err := c.client.AccountData(ctx, gatewayAccount)
	if err != nil {
		return chain.BurnDetails{}, fmt.Errorf("could not fetch gateway state: %w", err)
	}

	gatewayState, err := DecodeGatewayState(stateData)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	nonce := gatewayState.BurnCount + 1

	burnLogAccount, err := BurnLogAccount(program, nonce)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	burnChecked := token.NewBurnCheckedInstruction(
		amount, wrappedTokenDecimals, source, mint, owner, nil).Build()

	burnInstruction := BurnInstruction(
		owner, source, gatewayAccount, mint, burnLogAccount, program, []byte(recipient))

	c.logger.Debug("submitting burn", "asset", assetSymbol,
		"recipient", recipient, "amount", amount, "nonce", nonce)

	signature, err := c.client.ExecuteInstructions(
		ctx, []solanago.Instruction{burnChecked, burnInstruction}, signer)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	return chain.BurnDetails{
		ConfirmedSignature: signature,
		Nonce:              nonce,
		Recipient:          recipient,
		Amount:             amount,
	}, nil
}

// IsAlreadyMintedError matches the program error raised when the mint log
// account already exists, meaning this deposit was minted before.
func (c *ChainImpl) IsAlreadyMintedError(err error) bool {
	if err == nil {
		return false
	}

	message := strings.ToLower(err.Error())

	return strings.Contains(message, "already in use") ||
		strings.Contains(message, "already initialized")
}

func (c *ChainImpl) WaitForConfirmation(ctx context.Context, txRef string) error {
	return c.client.WaitForSignature(ctx, txRef)
}
