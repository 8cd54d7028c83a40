package client

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/renbridge/ren-sdk-go/chain"
)

// KeypairSigner signs transaction messages with a local ed25519 keypair.
type KeypairSigner struct {
	privateKey solanago.PrivateKey
}

var _ chain.Signer = (*KeypairSigner)(nil)

func NewKeypairSigner(privateKey solanago.PrivateKey) *KeypairSigner {
	return &KeypairSigner{privateKey: privateKey}
}

// LoadKeypairSigner reads a keypair in the solana-keygen json format.
func LoadKeypairSigner(path string) (*KeypairSigner, error) {
	privateKey, err := solanago.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair: %w", err)
	}

	return &KeypairSigner{privateKey: privateKey}, nil
}

func (s *KeypairSigner) PublicKey() []byte {
	return s.privateKey.PublicKey().Bytes()
}

func (s *KeypairSigner) Sign(message []byte) ([]byte, error) {
	signature, err := s.privateKey.Sign(message)
	if err != nil {
		return nil, err
	}

	return signature[:], nil
}
