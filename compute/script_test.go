package compute

import (
	"strings"
	"testing"

	"github.com/lcls-users/btx-launch/config"
	"github.com/lcls-users/btx-launch/logger"
)

func testDispatcher(t *testing.T) *Dispatcher {
	conf := config.DefaultConfig()
	conf.WorkDir = t.TempDir()
	log := logger.New("test")
	log.Discard()
	d := NewDispatcher(conf, nil, log)
	d.GenID = func() string { return "scripttest" }
	d.Executable = "/usr/local/bin/btx-launch"
	return d
}

func TestRenderScript(t *testing.T) {
	d := testDispatcher(t)
	req := Request{
		Facility:   "SLAC",
		NCores:     4,
		ConfigFile: "scratch/foo.yaml",
		Experiment: "mfxp23120",
		RunNumber:  "7",
		Task:       "index",
	}

	res, err := d.Resolve(req)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	script, err := d.RenderScript(res, req)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	expectLines := []string{
		"#!/bin/bash",
		"#SBATCH --job-name index",
		"#SBATCH --partition psanaq",
		"#SBATCH --ntasks 1",
		"#SBATCH --time 10:00:00",
		"#SBATCH --exclusive",
		"export SIT_PSDM_DATA=/cds/data/psdm",
		"export NCORES=1",
		"export TMP_EXE=" + res.RelayPath,
	}
	for _, line := range expectLines {
		if !strings.Contains(script, line+"\n") {
			t.Fatalf("script missing line %q:\n%s", line, script)
		}
	}

	// config rewrite happens at execution time, inside the job
	if !strings.Contains(script, "config rewrite --base "+res.ConfigPath) {
		t.Fatalf("script missing rewrite step:\n%s", script)
	}
	if !strings.Contains(script, "--run 7 --out "+res.RunConfigPath) {
		t.Fatalf("script missing rewrite output:\n%s", script)
	}

	// cleanup on all exit paths
	trap := "trap 'rm -f " + res.RunConfigPath + "' EXIT"
	if !strings.Contains(script, trap) {
		t.Fatalf("script missing cleanup trap:\n%s", script)
	}
	if strings.Index(script, trap) > strings.Index(script, "singularity exec") {
		t.Fatal("cleanup trap must be installed before the task runs")
	}

	// the task command uses the per-run config
	if !strings.Contains(script, "-c "+res.RunConfigPath+" -t index") {
		t.Fatalf("unexpected task command:\n%s", script)
	}
}

func TestRenderScriptNoRunNumber(t *testing.T) {
	d := testDispatcher(t)
	req := Request{Experiment: "mfxp23120", ConfigFile: "scratch/foo.yaml", Task: "index"}

	res, err := d.Resolve(req)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	script, err := d.RenderScript(res, req)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	if strings.Contains(script, "trap") {
		t.Fatal("unexpected cleanup trap without a run number")
	}
	if strings.Contains(script, "config rewrite") {
		t.Fatal("unexpected rewrite step without a run number")
	}
	if !strings.Contains(script, "-c "+res.ConfigPath+" -t index") {
		t.Fatalf("task command must use the base config:\n%s", script)
	}
}

func TestCommandQuoting(t *testing.T) {
	d := testDispatcher(t)
	req := Request{
		Experiment: "mfxp23120",
		ConfigFile: "scratch/foo.yaml",
		Task:       "index; rm -rf /",
	}

	res, err := d.Resolve(req)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	command := d.Command(res, req)
	if !strings.Contains(command, "'index; rm -rf /'") {
		t.Fatalf("task name must be quoted:\n%s", command)
	}
}

func TestCommandParallelTask(t *testing.T) {
	d := testDispatcher(t)
	req := Request{Experiment: "mfxp23120", NCores: 16, Task: ParallelTask}

	res, err := d.Resolve(req)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	command := d.Command(res, req)
	if !strings.Contains(command, "mpirun -n 16") {
		t.Fatalf("parallel task must keep its core count:\n%s", command)
	}
}
