// Package submit contains the command dispatching tasks to the scheduler.
package submit

import (
	"context"
	"fmt"

	"github.com/lcls-users/btx-launch/cmd/util"
	"github.com/lcls-users/btx-launch/compute"
	"github.com/lcls-users/btx-launch/compute/slurm"
	"github.com/lcls-users/btx-launch/config"
	"github.com/lcls-users/btx-launch/logger"
	"github.com/lcls-users/btx-launch/version"
	"github.com/spf13/cobra"
)

// NewCommand returns the submit command.
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Dispatch func(ctx context.Context, conf config.Config, req compute.Request, log *logger.Logger) (*compute.Result, error)
}

func newCommandHooks() (*cobra.Command, *hooks) {
	hooks := &hooks{
		Dispatch: Dispatch,
	}

	var (
		configFile string
		flagConf   config.Config
		req        compute.Request
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "submit [flags] [ignored args...]",
		Short: "Submit a task as a batch job.",
		// extra positional arguments are accepted and ignored, the
		// eLog appends them
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			log := logger.NewLogger("submit", conf.Logger)

			if dryRun {
				return dryRunScript(cmd, conf, req, log)
			}

			result, err := hooks.Dispatch(cmd.Context(), conf, req, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Command)
			fmt.Fprintf(out, "submitted batch job %s\n", result.JobID)
			if result.RelayJobID != "" {
				fmt.Fprintf(out, "submitted relay job %s\n", result.RelayJobID)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.Facility, "facility", "f", "", "Facility to run at (SLAC, SRCF_FFB, NERSC)")
	f.StringVarP(&req.Queue, "queue", "q", "", "Queue to submit to. Defaults to the facility queue.")
	f.IntVarP(&req.NCores, "ncores", "n", 1, "Number of cores")
	f.StringVarP(&req.ConfigFile, "config_file", "c", "", "Task config file, relative to the experiment directory")
	f.StringVarP(&req.Experiment, "experiment_name", "e", "", "Experiment name")
	f.StringVarP(&req.RunNumber, "run_number", "r", "", "Run number")
	f.StringVarP(&req.Task, "task", "t", "", "Task to execute")
	f.BoolVar(&dryRun, "dry_run", false, "Print the batch script without writing or submitting anything")
	f.StringVar(&configFile, "launch_config", "", "Path to a launcher config file")
	f.StringVar(&flagConf.Image, "image", "", "Container image the task runs in")
	f.StringVar(&flagConf.WorkDir, "work_dir", "", "Directory batch scripts are written to")
	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)

	return cmd, hooks
}

// Dispatch builds a dispatcher backed by the SLURM client and dispatches
// the request.
func Dispatch(ctx context.Context, conf config.Config, req compute.Request, log *logger.Logger) (*compute.Result, error) {
	log.Debug("btx-launch", version.LogFields()...)
	sched := slurm.NewClient(conf.Slurm, log)
	d := compute.NewDispatcher(conf, sched, log)
	return d.Dispatch(ctx, req)
}

// dryRunScript resolves the request and prints the batch script that would
// be submitted, touching nothing on disk and calling no scheduler.
func dryRunScript(cmd *cobra.Command, conf config.Config, req compute.Request, log *logger.Logger) error {
	d := compute.NewDispatcher(conf, nil, log)
	res, err := d.Resolve(req)
	if err != nil {
		return err
	}
	script, err := d.RenderScript(res, req)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), script)
	return nil
}
