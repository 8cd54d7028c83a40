package burnrelease

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoryBurnStore struct {
	mu       sync.Mutex
	pending  map[string]chain.BurnDetails
	released []string
}

var _ Store = (*memoryBurnStore)(nil)

func newMemoryBurnStore() *memoryBurnStore {
	return &memoryBurnStore{pending: map[string]chain.BurnDetails{}}
}

func (s *memoryBurnStore) GetPendingBurns() ([]chain.BurnDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]chain.BurnDetails, 0, len(s.pending))
	for _, details := range s.pending {
		result = append(result, details)
	}

	return result, nil
}

func (s *memoryBurnStore) SaveBurn(details chain.BurnDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[details.ConfirmedSignature] = details

	return nil
}

func (s *memoryBurnStore) MarkAsReleased(confirmedSignature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, confirmedSignature)
	s.released = append(s.released, confirmedSignature)

	return nil
}

func (s *memoryBurnStore) releasedSignatures() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.released...)
}

func newTestBurnService(t *testing.T, store Store) (*ServiceImpl, *rpc.ClientMock, *chain.ChainMock) {
	t.Helper()

	action, rpcClient, sourceChain := newTestBurnAction(t)

	service := NewService(
		ServiceConfig{RetryInterval: 10 * time.Millisecond}, action, store, hclog.NewNullLogger())

	return service, rpcClient, sourceChain
}

func TestServiceBurnAndRelease(t *testing.T) {
	store := newMemoryBurnStore()
	service, rpcClient, sourceChain := newTestBurnService(t, store)
	signer := &chain.SignerMock{}

	sourceChain.On("SubmitBurn",
		mock.Anything, "BTC", testBurnAccount, uint64(9000), testBurnRecipient, signer).
		Return(testBurnDetails(), nil).Once()
	sourceChain.On("WaitForConfirmation", mock.Anything, testBurnSignature).Return(nil)

	// first release attempt fails, the loop must keep going
	rpcClient.On("SubmitTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("lightnode unavailable")).Once()
	rpcClient.On("SubmitTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&rpc.ResponseSubmitTx{}, nil)

	require.NoError(t, service.Start(context.Background()))

	details, err := service.BurnAndRelease(
		context.Background(), testBurnAccount, 9000, testBurnRecipient, signer)
	require.NoError(t, err)
	assert.Equal(t, testBurnSignature, details.ConfirmedSignature)

	require.Eventually(t, func() bool {
		return len(store.releasedSignatures()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, service.Stop())

	assert.Equal(t, []string{testBurnSignature}, store.releasedSignatures())

	pending, err := store.GetPendingBurns()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestServiceResumesPendingBurns(t *testing.T) {
	store := newMemoryBurnStore()
	require.NoError(t, store.SaveBurn(testBurnDetails()))

	service, rpcClient, sourceChain := newTestBurnService(t, store)

	sourceChain.On("WaitForConfirmation", mock.Anything, testBurnSignature).Return(nil)
	rpcClient.On("SubmitTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&rpc.ResponseSubmitTx{}, nil)

	require.NoError(t, service.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(store.releasedSignatures()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, service.Stop())
}

func TestServiceWaitsForBurnConfirmation(t *testing.T) {
	store := newMemoryBurnStore()
	require.NoError(t, store.SaveBurn(testBurnDetails()))

	service, rpcClient, sourceChain := newTestBurnService(t, store)

	var confirmed atomic.Bool

	// confirmation fails once and then succeeds, the release must not be
	// submitted before it does
	sourceChain.On("WaitForConfirmation", mock.Anything, testBurnSignature).
		Return(errors.New("transaction not finalized")).Once()
	sourceChain.On("WaitForConfirmation", mock.Anything, testBurnSignature).
		Return(nil).
		Run(func(mock.Arguments) { confirmed.Store(true) })

	rpcClient.On("SubmitTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&rpc.ResponseSubmitTx{}, nil).
		Run(func(mock.Arguments) { assert.True(t, confirmed.Load()) })

	require.NoError(t, service.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(store.releasedSignatures()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, service.Stop())

	sourceChain.AssertExpectations(t)
}

func TestServiceNotStarted(t *testing.T) {
	service, _, _ := newTestBurnService(t, newMemoryBurnStore())

	_, err := service.BurnAndRelease(
		context.Background(), testBurnAccount, 9000, testBurnRecipient, &chain.SignerMock{})
	require.ErrorContains(t, err, "not started")
}
