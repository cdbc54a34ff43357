package submit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lcls-users/btx-launch/compute"
	"github.com/lcls-users/btx-launch/config"
	"github.com/lcls-users/btx-launch/logger"
)

func TestFlagsBuildRequest(t *testing.T) {
	c, h := newCommandHooks()

	var got compute.Request
	h.Dispatch = func(ctx context.Context, conf config.Config, req compute.Request, log *logger.Logger) (*compute.Result, error) {
		got = req
		return &compute.Result{JobID: "1", Command: "cmd"}, nil
	}

	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{
		"-f", "NERSC",
		"-q", "debug",
		"-n", "4",
		"-c", "scratch/foo.yaml",
		"-e", "mfxp23120",
		"-r", "7",
		"-t", "index",
		"trailing", "args", "ignored",
	})
	if err := c.Execute(); err != nil {
		t.Fatal("unexpected error", err)
	}

	if got.Facility != "NERSC" || got.Queue != "debug" || got.NCores != 4 {
		t.Fatal("unexpected request", got)
	}
	if got.ConfigFile != "scratch/foo.yaml" || got.Experiment != "mfxp23120" {
		t.Fatal("unexpected request", got)
	}
	if got.RunNumber != "7" || got.Task != "index" {
		t.Fatal("unexpected request", got)
	}
}

func TestHelpHasNoSideEffects(t *testing.T) {
	c, h := newCommandHooks()

	called := false
	h.Dispatch = func(ctx context.Context, conf config.Config, req compute.Request, log *logger.Logger) (*compute.Result, error) {
		called = true
		return nil, nil
	}

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"--help"})
	if err := c.Execute(); err != nil {
		t.Fatal("unexpected error", err)
	}

	if called {
		t.Fatal("help must not dispatch anything")
	}
	for _, flag := range []string{"facility", "queue", "ncores", "config_file", "experiment_name", "run_number", "task"} {
		if !strings.Contains(out.String(), flag) {
			t.Fatalf("help output missing flag %q:\n%s", flag, out.String())
		}
	}
}

func TestDryRunPrintsScript(t *testing.T) {
	c, h := newCommandHooks()

	h.Dispatch = func(ctx context.Context, conf config.Config, req compute.Request, log *logger.Logger) (*compute.Result, error) {
		t.Fatal("dry run must not dispatch")
		return nil, nil
	}

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"--dry_run", "-e", "mfxp23120", "-t", "index", "--work_dir", t.TempDir()})
	if err := c.Execute(); err != nil {
		t.Fatal("unexpected error", err)
	}

	if !strings.Contains(out.String(), "#SBATCH --partition psanaq") {
		t.Fatalf("unexpected dry run output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "singularity exec") {
		t.Fatalf("unexpected dry run output:\n%s", out.String())
	}
}

func TestSeparatorInsensitiveFlags(t *testing.T) {
	c, h := newCommandHooks()

	var got compute.Request
	h.Dispatch = func(ctx context.Context, conf config.Config, req compute.Request, log *logger.Logger) (*compute.Result, error) {
		got = req
		return &compute.Result{JobID: "1"}, nil
	}

	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"--experiment-name", "mfxp23120", "--run-number", "7", "-t", "index"})
	if err := c.Execute(); err != nil {
		t.Fatal("unexpected error", err)
	}
	if got.Experiment != "mfxp23120" || got.RunNumber != "7" {
		t.Fatal("unexpected request", got)
	}
}
