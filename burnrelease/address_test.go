package burnrelease

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressToBytes(t *testing.T) {
	t.Run("segwit", func(t *testing.T) {
		decoded, err := AddressToBytes("tb1ql7w62elx9ucw4pj5lgw4l028hmuw80sndtntxt")
		require.NoError(t, err)

		assert.Equal(t, "00ff9da567e62f30ea8654fa1d5fbd47bef8e3be13", hex.EncodeToString(decoded))
	})

	t.Run("legacy", func(t *testing.T) {
		const address = "2NC451uvR7AD5hvWNLQiYoqwQQfvQy2XB6U"

		decoded, err := AddressToBytes(address)
		require.NoError(t, err)

		assert.Equal(t, base58.Decode(address), decoded)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := AddressToBytes("0OIl")
		require.Error(t, err)
	})
}
