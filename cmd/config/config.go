// Package config contains commands for working with task configs and
// resolved submissions.
package config

import (
	"fmt"

	cmdutil "github.com/lcls-users/btx-launch/cmd/util"
	"github.com/lcls-users/btx-launch/compute"
	launcher "github.com/lcls-users/btx-launch/config"
	"github.com/lcls-users/btx-launch/logger"
	"github.com/spf13/cobra"
)

// NewCommand returns the config command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Task config commands.",
	}
	cmd.AddCommand(newRewriteCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)
	return cmd
}

// newRewriteCommand returns the command deriving a per-run task config
// from a base config. Generated batch scripts call this at execution time.
func newRewriteCommand() *cobra.Command {
	var (
		base string
		run  string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Derive a per-run task config from a base config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if base == "" || run == "" {
				return fmt.Errorf("both --base and --run are required")
			}
			if out == "" {
				out = compute.RunConfigPath(base, run)
			}
			if err := compute.WriteRunConfig(base, out, run); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&base, "base", "", "Base task config path")
	f.StringVar(&run, "run", "", "Run number")
	f.StringVar(&out, "out", "", "Output path. Defaults to the base path with the run number appended.")
	return cmd
}

// newResolveCommand returns the command printing the resolved submission
// for a request without submitting anything.
func newResolveCommand() *cobra.Command {
	var (
		configFile string
		req        compute.Request
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the resolved submission for a request without submitting.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cmdutil.MergeConfigFileWithFlags(configFile, launcher.Config{})
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			log := logger.NewLogger("config", conf.Logger)
			d := compute.NewDispatcher(conf, nil, log)
			res, err := d.Resolve(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "facility:", res.Facility.Name)
			fmt.Fprintln(out, "data root:", res.Facility.DataRoot)
			fmt.Fprintln(out, "queue:", res.Queue)
			fmt.Fprintln(out, "ncores:", res.NCores)
			fmt.Fprintln(out, "config:", res.ConfigPath)
			if res.RunConfigPath != "" {
				fmt.Fprintln(out, "run config:", res.RunConfigPath)
			}
			fmt.Fprintln(out, "command:", d.Command(res, req))
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
	f.StringVar(&configFile, "launch_config", "", "Path to a launcher config file")
	return cmd
}
