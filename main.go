package main

import (
	"os"

	"github.com/lcls-users/btx-launch/cmd"
	"github.com/lcls-users/btx-launch/logger"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}
