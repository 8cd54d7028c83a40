package clideposits

import (
	"fmt"
	"os"

	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/databaseaccess"
	"github.com/renbridge/ren-sdk-go/lockmint"
	"github.com/spf13/cobra"
)

const (
	dbFlag        = "db"
	idFlag        = "id"
	showBurnsFlag = "show-burns"

	dbFlagDesc        = "path to the bridge database file"
	idFlagDesc        = "show only the deposit with this transaction id"
	showBurnsFlagDesc = "include pending and released burns"
)

type depositsParams struct {
	db        string
	id        string
	showBurns bool
}

func (ip *depositsParams) validateFlags() error {
	if ip.db == "" {
		return fmt.Errorf("--%s flag not specified", dbFlag)
	}

	if _, err := os.Stat(ip.db); err != nil {
		return fmt.Errorf("invalid --%s flag: %w", dbFlag, err)
	}

	return nil
}

func (ip *depositsParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ip.db,
		dbFlag,
		"",
		dbFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.id,
		idFlag,
		"",
		idFlagDesc,
	)

	cmd.Flags().BoolVar(
		&ip.showBurns,
		showBurnsFlag,
		false,
		showBurnsFlagDesc,
	)
}

func (ip *depositsParams) Execute() (common.ICommandResult, error) {
	db := &databaseaccess.BBoltDB{}
	if err := db.Init(ip.db); err != nil {
		return nil, err
	}

	defer func() { _ = db.Close() }()

	result := &CmdResult{}

	gateway, err := db.GetGatewayInfo()
	if err != nil {
		return nil, err
	}

	if gateway != nil {
		result.GatewayAddress = gateway.GatewayAddress
	}

	if ip.id != "" {
		processingTx, err := db.GetProcessingTx(ip.id)
		if err != nil {
			return nil, err
		}

		if processingTx == nil {
			return nil, fmt.Errorf("unknown deposit: %s", ip.id)
		}

		result.Deposits = []lockmint.ProcessingTx{*processingTx}
	} else {
		result.Deposits, err = db.GetProcessingTxs()
		if err != nil {
			return nil, err
		}
	}

	if ip.showBurns {
		result.ShowBurns = true

		result.PendingBurns, err = db.GetPendingBurns()
		if err != nil {
			return nil, err
		}

		result.ReleasedBurns, err = db.GetReleasedBurns()
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
