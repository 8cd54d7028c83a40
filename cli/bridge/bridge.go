package clibridge

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/renbridge/ren-sdk-go/bridgecomponents"
	"github.com/renbridge/ren-sdk-go/bridgecomponents/core"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/spf13/cobra"
)

var initParamsData = &initParams{}

func GetRunBridgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run-bridge",
		Short:   "runs the bridge components",
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	initParamsData.setFlags(cmd)

	return cmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return initParamsData.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := common.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	config, err := common.LoadConfig[core.AppConfig](initParamsData.config, "")
	if err != nil {
		outputter.SetError(err)

		return
	}

	logger, err := common.NewLogger(config.Settings.Logger)
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridgeComponents, err := bridgecomponents.NewBridgeComponents(
		ctx, config, initParamsData.runAPI, logger)
	if err != nil {
		logger.Error("bridge components creation failed", "err", err)
		outputter.SetError(err)

		return
	}

	if err := bridgeComponents.Start(); err != nil {
		logger.Error("bridge components start failed", "err", err)
		outputter.SetError(err)

		return
	}

	defer func() { _ = bridgeComponents.Dispose() }()

	signalChannel := make(chan os.Signal, 1)
	// Notify the signalChannel when the interrupt signal is received (Ctrl+C)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	<-signalChannel

	outputter.SetCommandResult(&CmdResult{})
}
