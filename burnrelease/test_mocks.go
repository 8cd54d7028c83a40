package burnrelease

import (
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/stretchr/testify/mock"
)

type StoreMock struct {
	mock.Mock
}

var _ Store = (*StoreMock)(nil)

func (m *StoreMock) GetPendingBurns() ([]chain.BurnDetails, error) {
	args := m.Called()

	if result := args.Get(0); result != nil {
		return result.([]chain.BurnDetails), args.Error(1) //nolint
	}

	return nil, args.Error(1)
}

func (m *StoreMock) SaveBurn(details chain.BurnDetails) error {
	return m.Called(details).Error(0)
}

func (m *StoreMock) MarkAsReleased(confirmedSignature string) error {
	return m.Called(confirmedSignature).Error(0)
}
