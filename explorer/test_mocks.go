package explorer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ObserverMock struct {
	mock.Mock
	GetIncomingTransactionsFn func(address string) ([]IncomingTransaction, error)
	GetTipHeightFn            func() (uint64, error)
}

var _ Observer = (*ObserverMock)(nil)

func (m *ObserverMock) GetIncomingTransactions(
	ctx context.Context, address string,
) ([]IncomingTransaction, error) {
	if m.GetIncomingTransactionsFn != nil {
		return m.GetIncomingTransactionsFn(address)
	}

	args := m.Called(ctx, address)

	if result := args.Get(0); result != nil {
		return result.([]IncomingTransaction), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ObserverMock) GetTipHeight(ctx context.Context) (uint64, error) {
	if m.GetTipHeightFn != nil {
		return m.GetTipHeightFn()
	}

	args := m.Called(ctx)

	return args.Get(0).(uint64), args.Error(1) //nolint
}
