package solana

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
)

// Seeds of the program derived accounts owned by the gateway programs.
const (
	gatewayRegistryStateKey = "GatewayRegistryState"
	gatewayStateKey         = "GatewayStateV0.1.4"
)

// GatewayRegistryData is the registry account mapping selector hashes to
// gateway program ids, borsh encoded on chain.
type GatewayRegistryData struct {
	IsInitialized bool
	Owner         solanago.PublicKey
	Count         uint64
	Selectors     []solanago.PublicKey
	Gateways      []solanago.PublicKey
}

// RegistryStateAccount derives the address of the registry account from the
// network's registry authority.
func RegistryStateAccount(network renvm.Network) (solanago.PublicKey, error) {
	registry, err := solanago.PublicKeyFromBase58(network.GatewayRegistry)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("invalid gateway registry address: %w", err)
	}

	stateKey, _, err := solanago.FindProgramAddress(
		[][]byte{[]byte(gatewayRegistryStateKey)}, registry)
	if err != nil {
		return solanago.PublicKey{}, err
	}

	return stateKey, nil
}

func DecodeGatewayRegistry(data []byte) (*GatewayRegistryData, error) {
	registry := &GatewayRegistryData{}
	if err := bin.NewBorshDecoder(data).Decode(registry); err != nil {
		return nil, fmt.Errorf("could not decode gateway registry account: %w", err)
	}

	if !registry.IsInitialized {
		return nil, fmt.Errorf("gateway registry account is not initialized")
	}

	return registry, nil
}

// ResolveTokenGatewayContract looks up the gateway program responsible for
// the given selector hash.
func (registry *GatewayRegistryData) ResolveTokenGatewayContract(sHash common.Hash) (solanago.PublicKey, error) {
	target := solanago.PublicKeyFromBytes(sHash.Bytes())

	// the on-chain arrays are zero padded past Count, only the first Count
	// entries are registered selectors
	for i, selector := range registry.Selectors {
		if uint64(i) >= registry.Count {
			break
		}

		if selector.Equals(target) && i < len(registry.Gateways) {
			return registry.Gateways[i], nil
		}
	}

	return solanago.PublicKey{}, fmt.Errorf("no gateway registered for selector hash %s", sHash)
}

// SPLTokenPubkey derives the wrapped token mint owned by the gateway
// program.
func SPLTokenPubkey(program solanago.PublicKey, sHash common.Hash) (solanago.PublicKey, error) {
	mint, _, err := solanago.FindProgramAddress([][]byte{sHash.Bytes()}, program)

	return mint, err
}

// GatewayStateAccount derives the gateway program's state account.
func GatewayStateAccount(program solanago.PublicKey) (solanago.PublicKey, error) {
	state, _, err := solanago.FindProgramAddress([][]byte{[]byte(gatewayStateKey)}, program)

	return state, err
}

// GatewayStateData is the gateway program state account, borsh encoded.
type GatewayStateData struct {
	IsInitialized      bool
	RenVMAuthority     [20]byte
	Selectors          [32]byte
	BurnCount          uint64
	UnderlyingDecimals uint8
}

func DecodeGatewayState(data []byte) (*GatewayStateData, error) {
	state := &GatewayStateData{}
	if err := bin.NewBorshDecoder(data).Decode(state); err != nil {
		return nil, fmt.Errorf("could not decode gateway state account: %w", err)
	}

	return state, nil
}
