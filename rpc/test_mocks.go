package rpc

import (
	"context"

	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/stretchr/testify/mock"
)

type ClientMock struct {
	mock.Mock
	QueryTxFn  func(txHash string) (*ResponseQueryTx, error)
	SubmitTxFn func(hash common.Hash, input renvm.MintTransactionInput) (*ResponseSubmitTx, error)
}

var _ Client = (*ClientMock)(nil)

func (m *ClientMock) QueryTx(ctx context.Context, txHash string) (*ResponseQueryTx, error) {
	if m.QueryTxFn != nil {
		return m.QueryTxFn(txHash)
	}

	args := m.Called(ctx, txHash)

	if result := args.Get(0); result != nil {
		return result.(*ResponseQueryTx), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ClientMock) QueryBlockState(ctx context.Context) (*ResponseQueryBlockState, error) {
	args := m.Called(ctx)

	if result := args.Get(0); result != nil {
		return result.(*ResponseQueryBlockState), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ClientMock) QueryConfig(ctx context.Context) (*ResponseQueryConfig, error) {
	args := m.Called(ctx)

	if result := args.Get(0); result != nil {
		return result.(*ResponseQueryConfig), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ClientMock) SubmitTx(
	ctx context.Context, hash common.Hash,
	selector renvm.Selector, input renvm.MintTransactionInput,
) (*ResponseSubmitTx, error) {
	if m.SubmitTxFn != nil {
		return m.SubmitTxFn(hash, input)
	}

	args := m.Called(ctx, hash, selector, input)

	if result := args.Get(0); result != nil {
		return result.(*ResponseSubmitTx), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ClientMock) SelectPublicKey(ctx context.Context, assetSymbol string) ([]byte, error) {
	args := m.Called(ctx, assetSymbol)

	if result := args.Get(0); result != nil {
		return result.([]byte), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *ClientMock) EstimateTransactionFee(ctx context.Context, assetSymbol string) (uint64, error) {
	args := m.Called(ctx, assetSymbol)

	return args.Get(0).(uint64), args.Error(1) //nolint
}
