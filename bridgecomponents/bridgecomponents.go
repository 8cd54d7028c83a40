package bridgecomponents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/api"
	apiControllers "github.com/renbridge/ren-sdk-go/api/controllers"
	apiCore "github.com/renbridge/ren-sdk-go/api/core"
	"github.com/renbridge/ren-sdk-go/bridgecomponents/core"
	"github.com/renbridge/ren-sdk-go/burnrelease"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/databaseaccess"
	"github.com/renbridge/ren-sdk-go/explorer"
	"github.com/renbridge/ren-sdk-go/lockmint"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/rpc"
	"github.com/renbridge/ren-sdk-go/solana"
	solanaclient "github.com/renbridge/ren-sdk-go/solana/client"
	"github.com/renbridge/ren-sdk-go/telemetry"
)

const MainComponentName = "renbridge"

// BridgeComponentsImpl wires the bridge database, destination chain client,
// both orchestrators, telemetry and the optional status API into one
// process.
type BridgeComponentsImpl struct {
	ctx          context.Context
	shouldRunAPI bool
	db           *databaseaccess.BBoltDB
	solanaClient *solanaclient.ClientImpl

	lockMintService    *lockmint.ServiceImpl
	burnReleaseService *burnrelease.ServiceImpl
	api                apiCore.API
	telemetry          *telemetry.Telemetry
	logger             hclog.Logger
}

var _ core.BridgeComponents = (*BridgeComponentsImpl)(nil)

func NewBridgeComponents(
	ctx context.Context, appConfig *core.AppConfig, shouldRunAPI bool, logger hclog.Logger,
) (*BridgeComponentsImpl, error) {
	network, err := renvm.NetworkByName(appConfig.Network)
	if err != nil {
		return nil, err
	}

	telemetryObj := telemetry.NewTelemetry(appConfig.Telemetry, logger.Named("telemetry"))

	if err := common.CreateDirectoryIfNotExists(appConfig.Settings.DbsPath); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db := &databaseaccess.BBoltDB{}
	if err := db.Init(filepath.Join(appConfig.Settings.DbsPath, MainComponentName+".db")); err != nil {
		return nil, fmt.Errorf("failed to open bridge database: %w", err)
	}

	var solanaClient *solanaclient.ClientImpl

	if appConfig.Solana.WSURL != "" {
		solanaClient, err = solanaclient.NewClient(
			appConfig.Solana.RPCURL, logger, solanaclient.WithWSURL(ctx, appConfig.Solana.WSURL))
	} else {
		solanaClient, err = solanaclient.NewClient(appConfig.Solana.RPCURL, logger)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create solana client: %w", err)
	}

	signer, err := solanaclient.LoadKeypairSigner(appConfig.Solana.KeypairPath)
	if err != nil {
		return nil, err
	}

	destinationChain, err := solana.LoadChain(ctx, network, solanaClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load destination chain: %w", err)
	}

	rpcClient := rpc.NewClient(network, logger)
	observer := explorer.NewBlockstreamObserver(network, logger)

	lockMintAction := lockmint.NewLockAndMint(
		network, rpcClient, destinationChain,
		appConfig.AssetSymbol, appConfig.DestinationAddress, logger)

	lockMintService := lockmint.NewService(
		appConfig.LockMint, lockMintAction, destinationChain, signer, db, observer, logger)

	burnReleaseAction := burnrelease.NewBurnAndRelease(
		rpcClient, destinationChain, appConfig.AssetSymbol, appConfig.ReleaseChainName, logger)

	burnReleaseService := burnrelease.NewService(
		appConfig.BurnRelease, burnReleaseAction, db, logger)

	var apiObj *api.APIImpl

	if shouldRunAPI {
		apiObj, err = api.NewAPI(ctx, appConfig.APIConfig, []apiCore.APIController{
			apiControllers.NewBridgeStateController(db, logger.Named("bridge_state_controller")),
		}, logger.Named("api"))
		if err != nil {
			return nil, fmt.Errorf("failed to create api: %w", err)
		}
	}

	return &BridgeComponentsImpl{
		ctx:                ctx,
		shouldRunAPI:       shouldRunAPI,
		db:                 db,
		solanaClient:       solanaClient,
		lockMintService:    lockMintService,
		burnReleaseService: burnReleaseService,
		api:                apiObj,
		telemetry:          telemetryObj,
		logger:             logger,
	}, nil
}

func (b *BridgeComponentsImpl) Start() error {
	b.logger.Debug("Starting BridgeComponents")

	if err := b.telemetry.Start(); err != nil {
		return err
	}

	if err := b.lockMintService.Start(b.ctx); err != nil {
		return fmt.Errorf("failed to start lockmint service: %w", err)
	}

	if err := b.burnReleaseService.Start(b.ctx); err != nil {
		return fmt.Errorf("failed to start burnrelease service: %w", err)
	}

	if b.shouldRunAPI {
		go b.api.Start()
	}

	b.logger.Debug("Started BridgeComponents")

	return nil
}

func (b *BridgeComponentsImpl) Dispose() error {
	b.logger.Info("Disposing BridgeComponents")

	errs := make([]error, 0)

	if err := b.lockMintService.Stop(); err != nil {
		b.logger.Error("error while stopping lockmint service", "err", err)
		errs = append(errs, fmt.Errorf("error while stopping lockmint service. err: %w", err))
	}

	if err := b.burnReleaseService.Stop(); err != nil {
		b.logger.Error("error while stopping burnrelease service", "err", err)
		errs = append(errs, fmt.Errorf("error while stopping burnrelease service. err: %w", err))
	}

	if b.shouldRunAPI {
		if err := b.api.Dispose(); err != nil {
			b.logger.Error("error while disposing api", "err", err)
			errs = append(errs, fmt.Errorf("error while disposing api. err: %w", err))
		}
	}

	b.solanaClient.Close()

	if err := b.db.Close(); err != nil {
		b.logger.Error("error while closing bridge database", "err", err)
		errs = append(errs, fmt.Errorf("failed to close bridge database. err: %w", err))
	}

	if err := b.telemetry.Close(context.Background()); err != nil {
		b.logger.Error("error while closing telemetry", "err", err)
		errs = append(errs, fmt.Errorf("failed to close telemetry. err: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while disposing: %w", errors.Join(errs...))
	}

	return nil
}
