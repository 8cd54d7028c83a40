package lockmint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/explorer"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryStore keeps the orchestrator tests independent of the database
// layer, transitions are still enforced.
type memoryStore struct {
	mu      sync.Mutex
	session *renvm.Session
	gateway *GatewayInfo
	txs     map[string]*ProcessingTx
	order   []string
}

var _ PersistentStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{txs: map[string]*ProcessingTx{}}
}

func (s *memoryStore) GetSession() (*renvm.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session, nil
}

func (s *memoryStore) SaveSession(session *renvm.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session

	return nil
}

func (s *memoryStore) GetGatewayInfo() (*GatewayInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gateway, nil
}

func (s *memoryStore) SaveGatewayInfo(info *GatewayInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gateway = info

	return nil
}

func (s *memoryStore) GetProcessingTxs() ([]ProcessingTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]ProcessingTx, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.txs[id])
	}

	return result, nil
}

func (s *memoryStore) GetProcessingTx(id string) (*ProcessingTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx, exists := s.txs[id]; exists {
		clone := *tx

		return &clone, nil
	}

	return nil, nil
}

func (s *memoryStore) upsert(tx explorer.IncomingTransaction, gateway *GatewayInfo) *ProcessingTx {
	existing, exists := s.txs[tx.ID]
	if !exists {
		existing = NewProcessingTx(tx, gateway, 0, time.Now())
		s.txs[tx.ID] = existing
		s.order = append(s.order, tx.ID)
	}

	if existing.Gateway == nil {
		existing.Gateway = gateway
	}

	return existing
}

func (s *memoryStore) MarkAsConfirming(
	tx explorer.IncomingTransaction, gateway *GatewayInfo, confirmations uint64, at time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.upsert(tx, gateway)
	if err := existing.IsTransitionPossible(MintStateConfirming); err != nil {
		return err
	}

	existing.Vote(confirmations, at)

	return nil
}

func (s *memoryStore) MarkAsConfirmed(
	tx explorer.IncomingTransaction, gateway *GatewayInfo, confirmations uint64, at time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.upsert(tx, gateway)
	if err := existing.IsTransitionPossible(MintStateConfirmed); err != nil {
		return err
	}

	existing.Vote(confirmations, at)
	existing.ToConfirmed(at)

	return nil
}

func (s *memoryStore) transition(id string, newState MintState, apply func(*ProcessingTx)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.txs[id]
	if !exists {
		return fmt.Errorf("unknown deposit: %s", id)
	}

	if err := existing.IsTransitionPossible(newState); err != nil {
		return err
	}

	apply(existing)

	return nil
}

func (s *memoryStore) MarkAsSubmitted(id string, txHash string, at time.Time) error {
	return s.transition(id, MintStateSubmitted, func(tx *ProcessingTx) {
		tx.ToSubmitted(txHash, at)
	})
}

func (s *memoryStore) MarkAsMinted(id string, mintTxRef string, at time.Time) error {
	return s.transition(id, MintStateMinted, func(tx *ProcessingTx) {
		tx.ToMinted(mintTxRef, at)
	})
}

func (s *memoryStore) MarkAsIgnored(id string, processingError ProcessingError, at time.Time) error {
	return s.transition(id, MintStateIgnored, func(tx *ProcessingTx) {
		tx.ToIgnored(processingError, at)
	})
}

func (s *memoryStore) MarkAsProcessing(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.txs[id]
	if !exists || existing.IsProcessing {
		return false, nil
	}

	existing.IsProcessing = true

	return true, nil
}

func (s *memoryStore) MarkAllAsNotProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.txs {
		tx.IsProcessing = false
	}

	return nil
}

func (s *memoryStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	s.gateway = nil

	return nil
}

func (s *memoryStore) stateOf(id string) MintState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx, exists := s.txs[id]; exists {
		return tx.State
	}

	return ""
}

func newTestService(t *testing.T, store PersistentStore) (*ServiceImpl, *rpc.ClientMock, *chain.ChainMock) {
	t.Helper()

	action, rpcClient, destinationChain := newTestAction(t)
	observer := &explorer.ObserverMock{
		GetIncomingTransactionsFn: func(address string) ([]explorer.IncomingTransaction, error) {
			return nil, nil
		},
	}

	config := ServiceConfig{
		PollInterval:  10 * time.Millisecond,
		RetryInterval: 10 * time.Millisecond,
	}

	service := NewService(config, action,
		destinationChain, &chain.SignerMock{}, store, observer, hclog.NewNullLogger())

	return service, rpcClient, destinationChain
}

func TestServiceMintsConfirmedDeposit(t *testing.T) {
	store := newMemoryStore()
	service, rpcClient, destinationChain := newTestService(t, store)

	deposit := explorer.IncomingTransaction{
		ID: testDepositTxid, Vout: 0, Value: 10000,
		Status: explorer.TxStatus{Confirmed: true, BlockHeight: 100},
	}

	service.observer = &explorer.ObserverMock{
		GetIncomingTransactionsFn: func(address string) ([]explorer.IncomingTransaction, error) {
			return []explorer.IncomingTransaction{deposit}, nil
		},
		GetTipHeightFn: func() (uint64, error) { return 100, nil },
	}

	rpcClient.SubmitTxFn = func(_ common.Hash, _ renvm.MintTransactionInput) (*rpc.ResponseSubmitTx, error) {
		return &rpc.ResponseSubmitTx{}, nil
	}
	rpcClient.QueryTxFn = func(txHash string) (*rpc.ResponseQueryTx, error) {
		return &rpc.ResponseQueryTx{TxStatus: rpc.TxStatusDone}, nil
	}
	destinationChain.On("SubmitMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("mint-signature", nil)

	require.NoError(t, service.Start(context.Background()))

	defer func() { require.NoError(t, service.Stop()) }()

	require.Eventually(t, func() bool {
		return store.stateOf(testDepositTxid) == MintStateMinted
	}, 5*time.Second, 10*time.Millisecond)

	processingTx, err := store.GetProcessingTx(testDepositTxid)
	require.NoError(t, err)
	assert.Equal(t, "mint-signature", processingTx.MintTxRef)

	// the submitted hash commits to the gateway the deposit paid into
	gateway, err := store.GetGatewayInfo()
	require.NoError(t, err)
	require.NotNil(t, gateway)

	state, err := service.action.GetDepositState(deposit, gateway)
	require.NoError(t, err)
	assert.Equal(t, state.TxHash, processingTx.TxHash)
}

func TestServiceIgnoresUnderfundedDeposit(t *testing.T) {
	store := newMemoryStore()
	service, rpcClient, _ := newTestService(t, store)

	deposit := explorer.IncomingTransaction{
		ID: testDepositTxid, Vout: 0, Value: 800,
		Status: explorer.TxStatus{Confirmed: true, BlockHeight: 100},
	}

	service.observer = &explorer.ObserverMock{
		GetIncomingTransactionsFn: func(address string) ([]explorer.IncomingTransaction, error) {
			return []explorer.IncomingTransaction{deposit}, nil
		},
		GetTipHeightFn: func() (uint64, error) { return 100, nil },
	}

	rpcClient.SubmitTxFn = func(_ common.Hash, _ renvm.MintTransactionInput) (*rpc.ResponseSubmitTx, error) {
		return nil, errors.New("insufficient amount after fees: expected at least 1000, got 800")
	}

	require.NoError(t, service.Start(context.Background()))

	defer func() { require.NoError(t, service.Stop()) }()

	require.Eventually(t, func() bool {
		return store.stateOf(testDepositTxid) == MintStateIgnored
	}, 5*time.Second, 10*time.Millisecond)

	processingTx, err := store.GetProcessingTx(testDepositTxid)
	require.NoError(t, err)
	require.NotNil(t, processingTx.Error)
	assert.Equal(t, ProcessingErrorInsufficientFund, processingTx.Error.Kind)
	assert.Equal(t, uint64(1000), processingTx.Error.Expected)
	assert.Equal(t, uint64(800), processingTx.Error.Got)
}

func TestServiceResumesMidFlightDeposits(t *testing.T) {
	store := newMemoryStore()

	// a previous run crashed while this deposit was being processed
	session, err := renvm.NewSession(testDestinationAddress, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(&session))

	service, rpcClient, destinationChain := newTestService(t, store)

	gateway, err := service.action.GenerateGatewayAddress(context.Background(), &session)
	require.NoError(t, err)
	require.NoError(t, store.SaveGatewayInfo(gateway))

	deposit := explorer.IncomingTransaction{ID: testDepositTxid, Vout: 0, Value: 10000}
	require.NoError(t, store.MarkAsConfirming(deposit, gateway, 0, time.Now()))
	require.NoError(t, store.MarkAsConfirmed(deposit, gateway, 6, time.Now()))

	acquired, err := store.MarkAsProcessing(deposit.ID)
	require.NoError(t, err)
	require.True(t, acquired)

	rpcClient.SubmitTxFn = func(_ common.Hash, _ renvm.MintTransactionInput) (*rpc.ResponseSubmitTx, error) {
		return &rpc.ResponseSubmitTx{}, nil
	}
	rpcClient.QueryTxFn = func(txHash string) (*rpc.ResponseQueryTx, error) {
		return &rpc.ResponseQueryTx{TxStatus: rpc.TxStatusDone}, nil
	}
	destinationChain.On("SubmitMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("mint-signature", nil)

	require.NoError(t, service.Start(context.Background()))

	defer func() { require.NoError(t, service.Stop()) }()

	require.Eventually(t, func() bool {
		return store.stateOf(testDepositTxid) == MintStateMinted
	}, 5*time.Second, 10*time.Millisecond)
}

func TestServiceRotationKeepsSubmittedDeposits(t *testing.T) {
	store := newMemoryStore()
	service, rpcClient, destinationChain := newTestService(t, store)

	// a deposit was submitted against a gateway whose session has since
	// expired
	expired := testSession(t, sessionDay18874)
	require.NoError(t, store.SaveSession(expired))

	gateway, err := service.action.GenerateGatewayAddress(context.Background(), expired)
	require.NoError(t, err)
	require.NoError(t, store.SaveGatewayInfo(gateway))

	deposit := explorer.IncomingTransaction{ID: testDepositTxid, Vout: 0, Value: 10000}
	require.NoError(t, store.MarkAsConfirming(deposit, gateway, 0, time.Now()))
	require.NoError(t, store.MarkAsConfirmed(deposit, gateway, 6, time.Now()))
	require.NoError(t, store.MarkAsSubmitted(deposit.ID, testDepositTxHash, time.Now()))

	rpcClient.SubmitTxFn = func(_ common.Hash, _ renvm.MintTransactionInput) (*rpc.ResponseSubmitTx, error) {
		return &rpc.ResponseSubmitTx{}, nil
	}
	rpcClient.QueryTxFn = func(txHash string) (*rpc.ResponseQueryTx, error) {
		return &rpc.ResponseQueryTx{TxStatus: rpc.TxStatusDone}, nil
	}
	destinationChain.On("SubmitMint", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("mint-signature", nil)

	require.NoError(t, service.Start(context.Background()))

	defer func() { require.NoError(t, service.Stop()) }()

	require.Eventually(t, func() bool {
		return store.stateOf(testDepositTxid) == MintStateMinted
	}, 5*time.Second, 10*time.Millisecond)

	// the rotation replaced the session but kept the deposit and the gateway
	// it paid into, so the resubmitted hash is still the old one
	processingTx, err := store.GetProcessingTx(testDepositTxid)
	require.NoError(t, err)
	require.NotNil(t, processingTx)
	assert.Equal(t, testDepositTxHash, processingTx.TxHash)

	fresh, err := store.GetSession()
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.True(t, fresh.IsValid())
	assert.NotEqual(t, expired.Nonce, fresh.Nonce)
}

func TestServiceStartStoreError(t *testing.T) {
	storeMock := &PersistentStoreMock{}
	storeMock.On("MarkAllAsNotProcessing").Return(nil)
	storeMock.On("GetSession").Return(nil, errors.New("database closed"))

	service, _, _ := newTestService(t, storeMock)

	require.ErrorContains(t, service.Start(context.Background()), "database closed")
}

func TestServiceUpdatesChannel(t *testing.T) {
	store := newMemoryStore()
	service, _, _ := newTestService(t, store)

	deposit := explorer.IncomingTransaction{
		ID: testDepositTxid, Vout: 0, Value: 10000,
		Status: explorer.TxStatus{Confirmed: false},
	}

	service.observer = &explorer.ObserverMock{
		GetIncomingTransactionsFn: func(address string) ([]explorer.IncomingTransaction, error) {
			return []explorer.IncomingTransaction{deposit}, nil
		},
		GetTipHeightFn: func() (uint64, error) { return 100, nil },
	}

	require.NoError(t, service.Start(context.Background()))

	select {
	case processingTxs := <-service.UpdatesCh():
		require.Len(t, processingTxs, 1)
		assert.Equal(t, MintStateConfirming, processingTxs[0].State)
	case <-time.After(5 * time.Second):
		t.Fatal("no update received")
	}

	require.NoError(t, service.Stop())
}
