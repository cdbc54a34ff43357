// Package cancel contains the command canceling submitted batch jobs.
package cancel

import (
	"fmt"

	cmdutil "github.com/lcls-users/btx-launch/cmd/util"
	"github.com/lcls-users/btx-launch/compute"
	"github.com/lcls-users/btx-launch/compute/slurm"
	"github.com/lcls-users/btx-launch/config"
	"github.com/lcls-users/btx-launch/logger"
	"github.com/lcls-users/btx-launch/util"
	"github.com/spf13/cobra"
)

func newClient(conf config.Config, log *logger.Logger) compute.Scheduler {
	return slurm.NewClient(conf.Slurm, log)
}

// NewCommand returns the cancel command.
func NewCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "cancel [jobID ...]",
		Short: "Cancel submitted batch jobs.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cmdutil.MergeConfigFileWithFlags(configFile, config.Config{})
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			log := logger.NewLogger("cancel", conf.Logger)
			client := newClient(conf, log)

			var errs util.MultiError
			for _, id := range args {
				if err := client.Cancel(cmd.Context(), id); err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "canceled job %s\n", id)
			}
			return errs.ErrorOrNil()
		},
	}

	cmd.Flags().StringVar(&configFile, "launch_config", "", "Path to a launcher config file")
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)
	return cmd
}
