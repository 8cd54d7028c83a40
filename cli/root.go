package cli

import (
	"fmt"
	"os"

	clibridge "github.com/renbridge/ren-sdk-go/cli/bridge"
	clideposits "github.com/renbridge/ren-sdk-go/cli/deposits"
	cligatewayaddress "github.com/renbridge/ren-sdk-go/cli/gatewayaddress"
	cliversion "github.com/renbridge/ren-sdk-go/cli/version"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Short: "cli commands for the ren bridge",
		},
	}

	common.RegisterJSONOutputFlag(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		clibridge.GetRunBridgeCommand(),
		cligatewayaddress.GetGatewayAddressCommand(),
		clideposits.GetDepositsCommand(),
		cliversion.GetVersionCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
