package chain

import (
	"context"

	"github.com/renbridge/ren-sdk-go/rpc"
	"github.com/stretchr/testify/mock"
)

type ChainMock struct {
	mock.Mock
}

var _ Chain = (*ChainMock)(nil)

func (m *ChainMock) Name() string {
	return m.Called().String(0)
}

func (m *ChainMock) DeriveAssociatedAddress(
	ctx context.Context, ownerAddress string, assetSymbol string,
) ([]byte, error) {
	args := m.Called(ctx, ownerAddress, assetSymbol)

	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ChainMock) AddressToBytes(address string) ([]byte, error) {
	args := m.Called(address)

	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ChainMock) BytesToAddress(data []byte) (string, error) {
	args := m.Called(data)

	return args.String(0), args.Error(1)
}

func (m *ChainMock) SubmitMint(
	ctx context.Context, destinationAddress string, assetSymbol string,
	signer Signer, queryResponse *rpc.ResponseQueryTx,
) (string, error) {
	args := m.Called(ctx, destinationAddress, assetSymbol, signer, queryResponse)

	return args.String(0), args.Error(1)
}

func (m *ChainMock) SubmitBurn(
	ctx context.Context, assetSymbol string, account string,
	amount uint64, recipient string, signer Signer,
) (BurnDetails, error) {
	args := m.Called(ctx, assetSymbol, account, amount, recipient, signer)

	return args.Get(0).(BurnDetails), args.Error(1) //nolint
}

func (m *ChainMock) IsAlreadyMintedError(err error) bool {
	return m.Called(err).Bool(0)
}

func (m *ChainMock) WaitForConfirmation(ctx context.Context, txRef string) error {
	return m.Called(ctx, txRef).Error(0)
}

type SignerMock struct {
	mock.Mock
}

var _ Signer = (*SignerMock)(nil)

func (m *SignerMock) PublicKey() []byte {
	args := m.Called()

	if data := args.Get(0); data != nil {
		return data.([]byte) //nolint
	}

	return nil
}

func (m *SignerMock) Sign(message []byte) ([]byte, error) {
	args := m.Called(message)

	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}
