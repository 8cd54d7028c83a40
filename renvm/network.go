package renvm

import "fmt"

// Network holds the per-environment parameters of the bridge.
type Network struct {
	Name string
	// LightNode is the url of the bridge network JSON-RPC endpoint
	LightNode string
	// P2SHPrefix is the version byte used when rendering gateway addresses
	// on the origin chain
	P2SHPrefix byte
	// GatewayRegistry is the account holding the registry of gateway
	// programs on the destination chain
	GatewayRegistry string
	IsTestnet       bool
}

var (
	Mainnet = Network{
		Name:            "mainnet",
		LightNode:       "https://lightnode-mainnet.herokuapp.com",
		P2SHPrefix:      0x05,
		GatewayRegistry: "REGrPFKQhRneFFdUV3e9UDdzqUJyS6SKj88GdXFCRd2",
		IsTestnet:       false,
	}

	Testnet = Network{
		Name:            "testnet",
		LightNode:       "https://lightnode-testnet.herokuapp.com",
		P2SHPrefix:      0xC4,
		GatewayRegistry: "REGrPFKQhRneFFdUV3e9UDdzqUJyS6SKj88GdXFCRd2",
		IsTestnet:       true,
	}
)

func NetworkByName(name string) (Network, error) {
	switch name {
	case Mainnet.Name:
		return Mainnet, nil
	case Testnet.Name:
		return Testnet, nil
	default:
		return Network{}, fmt.Errorf("unknown network: %s", name)
	}
}
