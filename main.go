package main

import (
	"github.com/renbridge/ren-sdk-go/cli"
)

func main() {
	cli.NewRootCommand().Execute()
}
