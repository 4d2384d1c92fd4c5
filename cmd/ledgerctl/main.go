package main

import (
	"os"

	"github.com/MrJamesThe3rd/shopledger/cmd/ledgerctl/internal/command"
)

func main() {
	if err := command.NewRootCmd(command.OpenServices).Execute(); err != nil {
		os.Exit(1)
	}
}
