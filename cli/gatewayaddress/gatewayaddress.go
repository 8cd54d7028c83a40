package cligatewayaddress

import (
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/spf13/cobra"
)

var params = &gatewayAddressParams{}

func GetGatewayAddressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gateway-address",
		Short:   "derives the origin chain gateway deposit address without contacting any node.",
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	params.setFlags(cmd)

	return cmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := common.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	result, err := params.Execute()
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}
