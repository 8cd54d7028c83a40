package burnrelease

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/telemetry"
)

const defaultRetryInterval = time.Second * 5

type ServiceConfig struct {
	RetryInterval time.Duration `json:"retryInterval"`
}

// ServiceImpl drives burns through their two phases. Phase one burns on the
// source chain and persists the details, phase two releases through the
// bridge network and retries forever. Pending burns from previous runs are
// resubmitted on start.
type ServiceImpl struct {
	config ServiceConfig
	action *BurnAndRelease
	store  Store
	logger hclog.Logger

	cancel  context.CancelFunc
	ctx     context.Context
	wg      sync.WaitGroup
	startMu sync.Mutex
}

func NewService(
	config ServiceConfig, action *BurnAndRelease, store Store, logger hclog.Logger,
) *ServiceImpl {
	if config.RetryInterval <= 0 {
		config.RetryInterval = defaultRetryInterval
	}

	return &ServiceImpl{
		config: config,
		action: action,
		store:  store,
		logger: logger.Named("burnrelease_service"),
	}
}

// Start resubmits every persisted, not yet released burn. No new burn is
// accepted before Start has dispatched the backlog.
func (s *ServiceImpl) Start(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)

	pending, err := s.store.GetPendingBurns()
	if err != nil {
		return err
	}

	for _, details := range pending {
		s.logger.Info("resuming pending release", "signature", details.ConfirmedSignature)
		s.dispatchRelease(details)
	}

	return nil
}

func (s *ServiceImpl) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}

	s.wg.Wait()

	return nil
}

// BurnAndRelease executes phase one synchronously and schedules phase two.
// The returned details identify the burn, release progress is visible
// through the store.
func (s *ServiceImpl) BurnAndRelease(
	ctx context.Context, account string, amount uint64, recipient string, signer chain.Signer,
) (chain.BurnDetails, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.ctx == nil {
		return chain.BurnDetails{}, errors.New("service not started")
	}

	details, err := s.action.SubmitBurnTransaction(ctx, account, amount, recipient, signer)
	if err != nil {
		return chain.BurnDetails{}, err
	}

	// persisted before any release attempt, a crash cannot lose the burn
	if err := s.store.SaveBurn(details); err != nil {
		return chain.BurnDetails{}, err
	}

	telemetry.UpdateBurnsSubmittedCounter(s.action.burnSelector.AssetSymbol, 1)
	s.dispatchRelease(details)

	return details, nil
}

func (s *ServiceImpl) dispatchRelease(details chain.BurnDetails) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		if err := s.release(s.ctx, details); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("failed to release burn",
				"signature", details.ConfirmedSignature, "err", err)
		}
	}()
}

func (s *ServiceImpl) release(ctx context.Context, details chain.BurnDetails) error {
	// the burn must be final on the source chain before it is submitted
	err := common.RetryForever(ctx, s.config.RetryInterval, func(ctx context.Context) error {
		if err := s.action.WaitForBurnConfirmation(ctx, details); err != nil {
			s.logger.Error("failed to confirm burn. Retrying...",
				"signature", details.ConfirmedSignature, "err", err)

			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	burnState, err := s.action.GetBurnState(details)
	if err != nil {
		return err
	}

	err = common.RetryForever(ctx, s.config.RetryInterval, func(ctx context.Context) error {
		if _, err := s.action.Release(ctx, burnState); err != nil {
			s.logger.Error("failed to submit release. Retrying...",
				"signature", details.ConfirmedSignature, "err", err)

			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("burn released", "signature", details.ConfirmedSignature,
		"txHash", burnState.State.TxHash)
	telemetry.UpdateBurnsReleasedCounter(s.action.burnSelector.AssetSymbol, 1)

	return s.store.MarkAsReleased(details.ConfirmedSignature)
}
