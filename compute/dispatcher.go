// Package compute resolves dispatch requests into batch job submissions.
package compute

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/lcls-users/btx-launch/config"
	"github.com/lcls-users/btx-launch/logger"
	"github.com/lcls-users/btx-launch/util"
)

// Scheduler submits and cancels batch jobs. One implementation exists per
// scheduler backend.
type Scheduler interface {
	Submit(ctx context.Context, scriptPath string) (jobID string, err error)
	Cancel(ctx context.Context, jobID string) error
}

// Request is one dispatch invocation, built once from parsed flags and
// immutable afterwards.
type Request struct {
	Facility   string
	Queue      string
	NCores     int
	ConfigFile string
	Experiment string
	RunNumber  string
	Task       string
}

// ParallelTask is the one task kind that keeps its requested core count.
// Every other task is forced to a single core until proper scheduling
// integration lands.
const ParallelTask = "find_peaks"

// Resolved holds everything derived from a Request before submission.
type Resolved struct {
	Facility    config.FacilityProfile
	Queue       string
	NCores      int
	ForcedCores bool
	// ConfigPath is the absolute path of the base task config.
	ConfigPath string
	// RunConfigPath is the derived per-run config path. Empty when no
	// run number was given.
	RunConfigPath string
	// ScriptPath is the per-invocation batch script path.
	ScriptPath string
	// RelayPath is where a forced-core job may write its follow-up
	// script.
	RelayPath string
}

// Result reports a completed dispatch.
type Result struct {
	JobID      string
	RelayJobID string
	Command    string
	ScriptPath string
}

// Dispatcher resolves requests and submits batch jobs.
type Dispatcher struct {
	Conf  config.Config
	Sched Scheduler
	Log   *logger.Logger
	// GenID returns a fresh script token per invocation.
	// Defaults to util.GenScriptID.
	GenID func() string
	// Executable is the binary path the generated script calls back
	// into for the execution-time config rewrite. Defaults to the
	// running binary.
	Executable string
}

// NewDispatcher returns a Dispatcher wired to the given scheduler client.
func NewDispatcher(conf config.Config, sched Scheduler, log *logger.Logger) *Dispatcher {
	return &Dispatcher{Conf: conf, Sched: sched, Log: log}
}

// Resolve validates a request and derives scheduler parameters, config
// paths, and script paths from it. Unknown facilities are a hard error,
// returned before any path resolution.
func (d *Dispatcher) Resolve(req Request) (*Resolved, error) {
	if req.Task == "" {
		return nil, fmt.Errorf("a task is required")
	}

	name := req.Facility
	if name == "" {
		name = d.Conf.DefaultFacility
	}
	fac, err := config.Facility(name)
	if err != nil {
		return nil, err
	}

	queue := req.Queue
	if queue == "" {
		queue = fac.DefaultQueue
	}

	ncores := req.NCores
	if ncores < 1 {
		ncores = 1
	}
	forced := req.Task != ParallelTask
	if forced {
		ncores = 1
	}

	configFile := req.ConfigFile
	if configFile == "" {
		configFile = d.Conf.DefaultConfigFile
	}

	res := &Resolved{
		Facility:    fac,
		Queue:       queue,
		NCores:      ncores,
		ForcedCores: forced,
		ConfigPath: path.Join(
			fac.DataRoot, experimentPrefix(req.Experiment), req.Experiment, configFile,
		),
	}
	if req.RunNumber != "" {
		res.RunConfigPath = RunConfigPath(res.ConfigPath, req.RunNumber)
	}

	id := d.genID()
	res.ScriptPath = filepath.Join(d.Conf.WorkDir, "launch_"+id+".sh")
	res.RelayPath = filepath.Join(d.Conf.WorkDir, "relay_"+id+".sh")
	return res, nil
}

// Dispatch resolves the request, writes the batch script, and submits it.
// On the legacy relay path it then waits, bounded by the configured
// timeout, for the second-stage script written by the first job and
// submits that as a follow-up job.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	res, err := d.Resolve(req)
	if err != nil {
		return nil, err
	}

	if err := d.WriteScript(res, req); err != nil {
		return nil, err
	}

	command := d.Command(res, req)
	d.Log.Info("submitting batch job",
		"task", req.Task,
		"facility", res.Facility.Name,
		"queue", res.Queue,
		"ncores", res.NCores,
		"script", res.ScriptPath,
		"command", command,
	)

	jobID, err := d.Sched.Submit(ctx, res.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("submitting %s: %v", res.ScriptPath, err)
	}

	result := &Result{JobID: jobID, Command: command, ScriptPath: res.ScriptPath}

	if res.ForcedCores && !d.Conf.Relay.Disabled {
		relayID, err := d.submitRelay(ctx, res)
		if err != nil {
			return result, err
		}
		result.RelayJobID = relayID
	}
	return result, nil
}

// submitRelay waits for the relay script to appear on the shared
// filesystem, then submits it. The first job writes the script as a side
// effect once it starts running.
func (d *Dispatcher) submitRelay(ctx context.Context, res *Resolved) (string, error) {
	retrier := util.NewRetrier()
	retrier.InitialInterval = time.Duration(d.Conf.Relay.PollInterval)
	retrier.MaxInterval = time.Duration(d.Conf.Relay.PollInterval) * 4
	retrier.MaxElapsedTime = time.Duration(d.Conf.Relay.Timeout)
	retrier.ShouldRetry = os.IsNotExist
	retrier.Notify = func(err error, delay time.Duration) {
		d.Log.Debug("waiting for relay script", "path", res.RelayPath, "delay", delay.String())
	}

	err := retrier.Retry(ctx, func() error {
		_, err := os.Stat(res.RelayPath)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("timed out waiting for relay script %s: %v", res.RelayPath, err)
	}

	d.Log.Info("submitting relay job", "script", res.RelayPath)
	return d.Sched.Submit(ctx, res.RelayPath)
}

func (d *Dispatcher) genID() string {
	if d.GenID != nil {
		return d.GenID()
	}
	return util.GenScriptID()
}

func (d *Dispatcher) executable() string {
	if d.Executable != "" {
		return d.Executable
	}
	exe, err := os.Executable()
	if err != nil {
		return "btx-launch"
	}
	return exe
}

// experimentPrefix returns the three-character prefix grouping experiments
// under the facility data root.
func experimentPrefix(exp string) string {
	if len(exp) < 3 {
		return exp
	}
	return exp[:3]
}
