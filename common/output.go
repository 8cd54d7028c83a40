package common

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

// ICommandResult is the result of a cli command ready to be rendered
type ICommandResult interface {
	GetOutput() string
}

type OutputFormatter interface {
	SetError(err error)
	SetCommandResult(result ICommandResult)
	WriteOutput()
}

const JSONOutputFlag = "json"

// InitializeOutputter returns the commandOutput instance for the given command,
// honoring the global --json flag
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	asJSON, _ := cmd.Flags().GetBool(JSONOutputFlag)

	return &commandOutput{asJSON: asJSON}
}

type commandOutput struct {
	commandResult ICommandResult
	err           error
	asJSON        bool
}

var _ OutputFormatter = (*commandOutput)(nil)

func (o *commandOutput) SetError(err error) {
	o.err = err
}

func (o *commandOutput) SetCommandResult(result ICommandResult) {
	o.commandResult = result
}

func (o *commandOutput) WriteOutput() {
	if o.err != nil {
		if o.asJSON {
			content, _ := json.Marshal(map[string]string{"error": o.err.Error()})
			_, _ = fmt.Fprintln(os.Stderr, string(content))
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", o.err)
		}

		os.Exit(1)
	}

	if o.commandResult == nil {
		return
	}

	if o.asJSON {
		content, err := json.Marshal(o.commandResult)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		_, _ = fmt.Fprintln(os.Stdout, string(content))
	} else {
		_, _ = fmt.Fprintln(os.Stdout, o.commandResult.GetOutput())
	}
}

// FormatKV formats key value pairs:
//
// Key1|Value1
// Key2|Value2
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(JSONOutputFlag, false, "get command results in json format")
}
