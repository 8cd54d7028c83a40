package solana

import (
	"context"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/stretchr/testify/mock"
)

type ProgramClientMock struct {
	mock.Mock
	AccountDataFn func(account solanago.PublicKey) ([]byte, error)
}

var _ ProgramClient = (*ProgramClientMock)(nil)

func (m *ProgramClientMock) AccountData(ctx context.Context, account solanago.PublicKey) ([]byte, error) {
	if m.AccountDataFn != nil {
		return m.AccountDataFn(account)
	}

	args := m.Called(ctx, account)

	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ProgramClientMock) ExecuteInstructions(
	ctx context.Context, instructions []solanago.Instruction, signer chain.Signer,
) (string, error) {
	args := m.Called(ctx, instructions, signer)

	return args.String(0), args.Error(1)
}

func (m *ProgramClientMock) WaitForSignature(ctx context.Context, signature string) error {
	return m.Called(ctx, signature).Error(0)
}
