package lockmint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/explorer"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/telemetry"
)

const (
	defaultPollInterval          = time.Second * 5
	defaultRetryInterval         = time.Second * 5
	defaultConfirmationThreshold = 1
	defaultUpdatesChannelSize    = 16
)

type ServiceConfig struct {
	PollInterval          time.Duration `json:"pollInterval"`
	RetryInterval         time.Duration `json:"retryInterval"`
	ConfirmationThreshold uint64        `json:"confirmationThreshold"`
	UpdatesChannelSize    int           `json:"updatesChannelSize"`
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}

	if c.RetryInterval <= 0 {
		c.RetryInterval = defaultRetryInterval
	}

	if c.ConfirmationThreshold == 0 {
		c.ConfirmationThreshold = defaultConfirmationThreshold
	}

	if c.UpdatesChannelSize <= 0 {
		c.UpdatesChannelSize = defaultUpdatesChannelSize
	}

	return c
}

// ServiceImpl owns the deposit lifecycle: it keeps a valid session, polls
// the origin chain for deposits to the session's gateway address and drives
// every deposit through the processing state machine. All mutable state
// lives in the store, one processing task per deposit at a time.
type ServiceImpl struct {
	config           ServiceConfig
	action           *LockAndMint
	destinationChain chain.Chain
	signer           chain.Signer
	store            PersistentStore
	observer         explorer.Observer
	logger           hclog.Logger

	session renvm.Session
	gateway *GatewayInfo
	mu      sync.Mutex

	updates *common.SafeCh[[]ProcessingTx]
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// taskCtx scopes the per-deposit tasks, replaced on every session
	// rotation so a rotation can stop them without stopping the poll loop
	taskCtx    context.Context
	taskCancel context.CancelFunc
	taskWg     sync.WaitGroup
}

func NewService(
	config ServiceConfig, action *LockAndMint,
	destinationChain chain.Chain, signer chain.Signer,
	store PersistentStore, observer explorer.Observer, logger hclog.Logger,
) *ServiceImpl {
	config = config.withDefaults()

	return &ServiceImpl{
		config:           config,
		action:           action,
		destinationChain: destinationChain,
		signer:           signer,
		store:            store,
		observer:         observer,
		logger:           logger.Named("lockmint_service"),
		updates:          common.MakeSafeCh[[]ProcessingTx](config.UpdatesChannelSize),
	}
}

// UpdatesCh streams the full processing list after every store mutation.
// Slow consumers miss intermediate snapshots, never the store itself.
func (s *ServiceImpl) UpdatesCh() <-chan []ProcessingTx {
	return s.updates.ReadCh()
}

// GatewayAddress returns the deposit address of the current session.
func (s *ServiceImpl) GatewayAddress() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gateway == nil {
		return ""
	}

	return s.gateway.GatewayAddress
}

// Start restores or creates the session, clears stale processing guards,
// re-drains deposits that were mid-flight at the previous shutdown and runs
// the observation loop until the context is cancelled or Stop is called.
func (s *ServiceImpl) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	// crash means not processing, never stuck forever
	if err := s.store.MarkAllAsNotProcessing(); err != nil {
		return err
	}

	s.resetTasks(ctx)

	if err := s.restoreSession(ctx); err != nil {
		return err
	}

	s.wg.Add(1)

	go s.pollLoop(ctx)

	return nil
}

// Stop cancels every in-flight task, waits for them and clears the
// processing guards so the next Start re-evaluates cleanly.
func (s *ServiceImpl) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}

	s.wg.Wait()
	s.taskWg.Wait()

	if err := s.store.MarkAllAsNotProcessing(); err != nil {
		return err
	}

	return s.updates.Close()
}

func (s *ServiceImpl) restoreSession(ctx context.Context) error {
	session, err := s.store.GetSession()
	if err != nil {
		return err
	}

	if session != nil && session.IsValid() &&
		session.DestinationAddress == s.action.destinationAddress {
		gateway, err := s.store.GetGatewayInfo()
		if err != nil {
			return err
		}

		if gateway != nil {
			s.logger.Info("session restored",
				"address", gateway.GatewayAddress, "endAt", session.EndAt)
			s.setSession(*session, gateway)

			return s.drainBacklog()
		}
	}

	return s.rotateSession(ctx)
}

// rotateSession replaces the session with a fresh one. In-flight tasks are
// cancelled before any session state is mutated and non-terminal deposits
// are re-dispatched afterwards, a deposit made to an earlier gateway is
// never dropped.
func (s *ServiceImpl) rotateSession(ctx context.Context) error {
	s.cancelTasks()

	if err := s.store.MarkAllAsNotProcessing(); err != nil {
		return err
	}

	if err := s.store.ClearSession(); err != nil {
		return err
	}

	session, err := renvm.NewSession(s.action.destinationAddress, time.Now())
	if err != nil {
		return err
	}

	var gateway *GatewayInfo

	err = common.RetryForever(ctx, s.config.RetryInterval, func(ctx context.Context) error {
		gateway, err = s.action.GenerateGatewayAddress(ctx, &session)
		if err != nil {
			s.logger.Error("failed to generate gateway address. Retrying...", "err", err)
		}

		return err
	})
	if err != nil {
		return err
	}

	if err := s.store.SaveSession(&session); err != nil {
		return err
	}

	if err := s.store.SaveGatewayInfo(gateway); err != nil {
		return err
	}

	s.setSession(session, gateway)
	s.resetTasks(ctx)

	return s.drainBacklog()
}

func (s *ServiceImpl) setSession(session renvm.Session, gateway *GatewayInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	s.gateway = gateway

	telemetry.UpdateSessionEndGauge(s.action.selector.AssetSymbol, session.EndAt.Unix())
}

func (s *ServiceImpl) currentSession() (renvm.Session, *GatewayInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session, s.gateway
}

func (s *ServiceImpl) resetTasks(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskCtx, s.taskCancel = context.WithCancel(ctx)
}

// cancelTasks stops every in-flight deposit task and waits for them.
func (s *ServiceImpl) cancelTasks() {
	s.mu.Lock()
	cancel := s.taskCancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	s.taskWg.Wait()
}

// drainBacklog re-dispatches every deposit that was mid-flight, deposits
// survive restarts and session rotations.
func (s *ServiceImpl) drainBacklog() error {
	processingTxs, err := s.store.GetProcessingTxs()
	if err != nil {
		return err
	}

	for _, processingTx := range processingTxs {
		if processingTx.State == MintStateConfirmed || processingTx.State == MintStateSubmitted {
			s.dispatch(processingTx.Tx)
		}
	}

	return nil
}

func (s *ServiceImpl) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		session, _ := s.currentSession()
		if !session.IsValid() {
			s.logger.Info("session expired, rotating", "endAt", session.EndAt)

			if err := s.rotateSession(ctx); err != nil {
				s.logger.Error("failed to rotate session", "err", err)

				continue
			}
		}

		if err := s.observe(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("failed to observe gateway address", "err", err)
		}
	}
}

func (s *ServiceImpl) observe(ctx context.Context) error {
	_, gateway := s.currentSession()

	incomingTxs, err := s.observer.GetIncomingTransactions(ctx, gateway.GatewayAddress)
	if err != nil {
		return err
	}

	if len(incomingTxs) == 0 {
		return nil
	}

	tipHeight, err := s.observer.GetTipHeight(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, incomingTx := range incomingTxs {
		existing, err := s.store.GetProcessingTx(incomingTx.ID)
		if err != nil {
			return err
		}

		// terminal and mid-flight entries need no further observation
		if existing != nil && existing.State != MintStateConfirming {
			continue
		}

		confirmations := incomingTx.Confirmations(tipHeight)

		if confirmations < s.config.ConfirmationThreshold {
			if err := s.store.MarkAsConfirming(incomingTx, gateway, confirmations, now); err != nil {
				return err
			}

			if existing == nil {
				telemetry.UpdateDepositsObservedCounter(s.action.selector.AssetSymbol, 1)
			}

			s.notify()

			continue
		}

		if err := s.store.MarkAsConfirmed(incomingTx, gateway, confirmations, now); err != nil {
			return err
		}

		if existing == nil {
			telemetry.UpdateDepositsObservedCounter(s.action.selector.AssetSymbol, 1)
		}

		telemetry.UpdateDepositsConfirmedCounter(s.action.selector.AssetSymbol, 1)
		s.notify()
		s.dispatch(incomingTx)
	}

	return nil
}

func (s *ServiceImpl) dispatch(tx explorer.IncomingTransaction) {
	s.mu.Lock()
	ctx := s.taskCtx
	s.mu.Unlock()

	s.taskWg.Add(1)

	go func() {
		defer s.taskWg.Done()

		if err := s.processTx(ctx, tx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("failed to process deposit", "tx", tx.ID, "err", err)
		}
	}()
}

// processTx drives a single deposit from Confirmed to Minted or Ignored.
// The processing guard ensures a deposit is never advanced by two tasks at
// once, so dispatching the same deposit twice is harmless. Hashes are
// recomputed from the gateway binding persisted with the deposit.
func (s *ServiceImpl) processTx(ctx context.Context, tx explorer.IncomingTransaction) error {
	acquired, err := s.store.MarkAsProcessing(tx.ID)
	if err != nil || !acquired {
		return err
	}

	current, err := s.store.GetProcessingTx(tx.ID)
	if err != nil {
		return err
	}

	if current == nil || current.Gateway == nil {
		return fmt.Errorf("deposit %s has no gateway binding", tx.ID)
	}

	gateway := current.Gateway

	state, err := s.action.GetDepositState(tx, gateway)
	if err != nil {
		return err
	}

	err = common.RetryForever(ctx, s.config.RetryInterval, func(ctx context.Context) error {
		// resubmission is safe, the network de-duplicates on the tx hash
		if _, err := s.action.SubmitMintTransaction(ctx, gateway, state); err != nil {
			if processingError := ParseProcessingError(err.Error()); processingError.IsTerminal() {
				return s.ignore(tx.ID, processingError)
			}

			s.logger.Error("failed to submit deposit. Retrying...", "tx", tx.ID, "err", err)

			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	current, err = s.store.GetProcessingTx(tx.ID)
	if err != nil {
		return err
	}

	if current != nil && current.State == MintStateIgnored {
		return nil
	}

	if err := s.store.MarkAsSubmitted(tx.ID, state.TxHash, time.Now()); err != nil {
		return err
	}

	telemetry.UpdateMintsSubmittedCounter(s.action.selector.AssetSymbol, 1)
	s.notify()

	return common.RetryForever(ctx, s.config.RetryInterval, func(ctx context.Context) error {
		mintTxRef, err := s.action.Mint(ctx, state, s.signer)
		if err != nil {
			if s.destinationChain.IsAlreadyMintedError(err) {
				s.logger.Info("deposit already minted", "tx", tx.ID)

				return s.mint(tx.ID, "")
			}

			if processingError := ParseProcessingError(err.Error()); processingError.IsTerminal() {
				return s.ignore(tx.ID, processingError)
			}

			s.logger.Debug("mint not ready. Retrying...", "tx", tx.ID, "err", err)

			return err
		}

		s.logger.Info("deposit minted", "tx", tx.ID, "mintTxRef", mintTxRef)

		return s.mint(tx.ID, mintTxRef)
	})
}

func (s *ServiceImpl) mint(id string, mintTxRef string) error {
	if err := s.store.MarkAsMinted(id, mintTxRef, time.Now()); err != nil {
		return err
	}

	telemetry.UpdateMintsMintedCounter(s.action.selector.AssetSymbol, 1)
	s.notify()

	return nil
}

func (s *ServiceImpl) ignore(id string, processingError ProcessingError) error {
	s.logger.Warn("deposit permanently rejected", "tx", id, "err", processingError.Message)

	if err := s.store.MarkAsIgnored(id, processingError, time.Now()); err != nil {
		return err
	}

	telemetry.UpdateMintsIgnoredCounter(s.action.selector.AssetSymbol, 1)
	s.notify()

	return nil
}

func (s *ServiceImpl) notify() {
	processingTxs, err := s.store.GetProcessingTxs()
	if err != nil {
		s.logger.Error("failed to read processing txs for notification", "err", err)

		return
	}

	s.updates.TryWrite(processingTxs)
}
