package compute

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/kballard/go-shellquote"
	"github.com/lcls-users/btx-launch/util"
)

// scriptData is the payload rendered into the batch script template.
// Every user-influenced value is shell quoted before it gets here.
type scriptData struct {
	JobName string
	Queue   string
	NTasks  int
	Time    string
	Env     []string
	Trap    string
	Rewrite string
	Echo    string
	Command string
}

// Command builds the containerized task command for a resolved request.
// The run-specific config is used when a run number was given.
func (d *Dispatcher) Command(res *Resolved, req Request) string {
	cfg := res.ConfigPath
	if res.RunConfigPath != "" {
		cfg = res.RunConfigPath
	}
	return shellquote.Join(
		"singularity", "exec", "-B", res.Facility.DataRoot, d.Conf.Image,
		"mpirun", "-n", strconv.Itoa(res.NCores),
		d.Conf.Python, "-m", d.Conf.Entrypoint,
		"-c", cfg,
		"-t", req.Task,
	)
}

// RenderScript renders the batch script for a resolved request. The
// per-run config rewrite happens at execution time, inside the job, not
// here; the script's exit trap removes the derived config on all paths.
func (d *Dispatcher) RenderScript(res *Resolved, req Request) (string, error) {
	command := d.Command(res, req)

	data := scriptData{
		JobName: shellquote.Join(req.Task),
		Queue:   shellquote.Join(res.Queue),
		NTasks:  res.NCores,
		Time:    d.Conf.Slurm.Time,
		Env: []string{
			"BTX_IMAGE=" + shellquote.Join(d.Conf.Image),
			"SIT_PSDM_DATA=" + shellquote.Join(res.Facility.DataRoot),
			"NCORES=" + strconv.Itoa(res.NCores),
			"TMP_EXE=" + shellquote.Join(res.RelayPath),
			"BTX_PYTHON=" + shellquote.Join(d.Conf.Python),
		},
		Echo:    "echo " + shellquote.Join("running: "+command),
		Command: command,
	}

	if res.RunConfigPath != "" {
		rm := shellquote.Join("rm", "-f", res.RunConfigPath)
		data.Trap = "trap " + shellquote.Join(rm) + " EXIT"
		data.Rewrite = shellquote.Join(
			d.executable(), "config", "rewrite",
			"--base", res.ConfigPath,
			"--run", req.RunNumber,
			"--out", res.RunConfigPath,
		)
	}

	tpl, err := template.New("launch.sh").Parse(d.Conf.Slurm.Template)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteScript renders the batch script and writes it to the per-invocation
// script path, creating the work directory if absent.
func (d *Dispatcher) WriteScript(res *Resolved, req Request) error {
	body, err := d.RenderScript(res, req)
	if err != nil {
		return err
	}
	if err := util.EnsureDir(filepath.Dir(res.ScriptPath)); err != nil {
		return err
	}
	return os.WriteFile(res.ScriptPath, []byte(body), 0755)
}
