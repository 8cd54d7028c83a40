package clibridge

type CmdResult struct{}

func (r CmdResult) GetOutput() string {
	return "bridge stopped"
}
