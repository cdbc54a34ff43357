package config

// The following variables are available for use in the batch script template:
//
// JobName   scheduler job name, already shell quoted
// Queue     partition the job is submitted to, already shell quoted
// NTasks    number of scheduler tasks
// Time      wall-clock limit
// Env       exported environment block, one KEY=value entry per line
// Trap      cleanup trap line removing the per-run config on all exit paths;
//           empty when no run number was given
// Rewrite   execution-time per-run config rewrite command; empty when no run
//           number was given
// Echo      echo line logging the command about to run
// Command   the containerized task command
//
// See https://golang.org/pkg/text/template for more information

var slurmTemplate = `#!/bin/bash
#SBATCH --job-name {{.JobName}}
#SBATCH --partition {{.Queue}}
#SBATCH --ntasks {{.NTasks}}
#SBATCH --time {{.Time}}
#SBATCH --exclusive

{{range .Env -}}
export {{.}}
{{end -}}

{{if .Trap -}}
{{.Trap}}
{{.Rewrite}}
{{end -}}

{{.Echo}}
{{.Command}}
`
