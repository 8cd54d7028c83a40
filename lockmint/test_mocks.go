package lockmint

import (
	"time"

	"github.com/renbridge/ren-sdk-go/explorer"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/stretchr/testify/mock"
)

type PersistentStoreMock struct {
	mock.Mock
}

var _ PersistentStore = (*PersistentStoreMock)(nil)

func (m *PersistentStoreMock) GetSession() (*renvm.Session, error) {
	args := m.Called()

	if result := args.Get(0); result != nil {
		return result.(*renvm.Session), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *PersistentStoreMock) SaveSession(session *renvm.Session) error {
	return m.Called(session).Error(0)
}

func (m *PersistentStoreMock) GetGatewayInfo() (*GatewayInfo, error) {
	args := m.Called()

	if result := args.Get(0); result != nil {
		return result.(*GatewayInfo), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *PersistentStoreMock) SaveGatewayInfo(info *GatewayInfo) error {
	return m.Called(info).Error(0)
}

func (m *PersistentStoreMock) GetProcessingTxs() ([]ProcessingTx, error) {
	args := m.Called()

	if result := args.Get(0); result != nil {
		return result.([]ProcessingTx), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *PersistentStoreMock) GetProcessingTx(id string) (*ProcessingTx, error) {
	args := m.Called(id)

	if result := args.Get(0); result != nil {
		return result.(*ProcessingTx), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *PersistentStoreMock) MarkAsConfirming(
	tx explorer.IncomingTransaction, gateway *GatewayInfo, confirmations uint64, at time.Time,
) error {
	return m.Called(tx, gateway, confirmations, at).Error(0)
}

func (m *PersistentStoreMock) MarkAsConfirmed(
	tx explorer.IncomingTransaction, gateway *GatewayInfo, confirmations uint64, at time.Time,
) error {
	return m.Called(tx, gateway, confirmations, at).Error(0)
}

func (m *PersistentStoreMock) MarkAsSubmitted(id string, txHash string, at time.Time) error {
	return m.Called(id, txHash, at).Error(0)
}

func (m *PersistentStoreMock) MarkAsMinted(id string, mintTxRef string, at time.Time) error {
	return m.Called(id, mintTxRef, at).Error(0)
}

func (m *PersistentStoreMock) MarkAsIgnored(id string, processingError ProcessingError, at time.Time) error {
	return m.Called(id, processingError, at).Error(0)
}

func (m *PersistentStoreMock) MarkAsProcessing(id string) (bool, error) {
	args := m.Called(id)

	return args.Bool(0), args.Error(1)
}

func (m *PersistentStoreMock) MarkAllAsNotProcessing() error {
	return m.Called().Error(0)
}

func (m *PersistentStoreMock) ClearSession() error {
	return m.Called().Error(0)
}
