// Package cmd contains the btx-launch CLI commands.
package cmd

import (
	"github.com/lcls-users/btx-launch/cmd/cancel"
	configcmd "github.com/lcls-users/btx-launch/cmd/config"
	"github.com/lcls-users/btx-launch/cmd/submit"
	"github.com/lcls-users/btx-launch/cmd/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "btx-launch",
	Short:         "Dispatch beamline analysis tasks to a cluster scheduler.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(cancel.NewCommand())
	RootCmd.AddCommand(configcmd.NewCommand())
	RootCmd.AddCommand(submit.NewCommand())
	RootCmd.AddCommand(version.Cmd)
}
