package burnrelease

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressToBytes renders a release recipient the way the network hashes it:
// segwit addresses become the witness version byte followed by the witness
// program, legacy base58 addresses are decoded as-is.
func AddressToBytes(address string) ([]byte, error) {
	if _, data, err := bech32.Decode(address); err == nil {
		if len(data) == 0 {
			return nil, fmt.Errorf("bech32 address %q has no witness program", address)
		}

		program, err := bech32.ConvertBits(data[1:], 5, 8, false)
		if err != nil {
			return nil, fmt.Errorf("invalid witness program in %q: %w", address, err)
		}

		return append([]byte{data[0]}, program...), nil
	}

	decoded := base58.Decode(address)
	if len(decoded) == 0 {
		return nil, fmt.Errorf("unsupported recipient address: %q", address)
	}

	return decoded, nil
}
