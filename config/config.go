package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ghodss/yaml"
	"github.com/lcls-users/btx-launch/logger"
)

// Config describes configuration for the launcher.
type Config struct {
	// Container image the task entrypoint runs in.
	Image string
	// Python interpreter invoked inside the container.
	Python string
	// Python module implementing the task entrypoint.
	Entrypoint string
	// Directory batch scripts are written to. Defaults to $HOME/.btx,
	// or a .btx directory next to the binary when HOME is unset.
	WorkDir string
	// Facility used when none is requested.
	DefaultFacility string
	// Task config file used when none is requested, relative to the
	// experiment directory.
	DefaultConfigFile string
	Slurm             Slurm
	Relay             Relay
	Logger            logger.Config
}

// Slurm describes the scheduler integration.
type Slurm struct {
	SubmitCmd string
	CancelCmd string
	// Wall-clock limit applied to submitted jobs.
	Time     string
	Template string
}

// Relay configures the legacy second-stage submission: jobs with a forced
// core count may write a follow-up script the launcher waits for and
// submits as a second job.
type Relay struct {
	Disabled bool
	// PollInterval is the initial interval between checks for the
	// relay script. The interval backs off exponentially.
	PollInterval Duration
	// Timeout bounds the total wait. A relay script that never appears
	// fails the dispatch instead of hanging it.
	Timeout Duration
}

// DefaultConfig returns configuration with simple defaults.
func DefaultConfig() Config {
	workDir := ".btx"
	if home, err := os.UserHomeDir(); err == nil {
		workDir = filepath.Join(home, ".btx")
	} else if exe, err := os.Executable(); err == nil {
		workDir = filepath.Join(filepath.Dir(exe), ".btx")
	}

	return Config{
		Image:             "/cds/sw/package/btx/btx_latest.sif",
		Python:            "python3",
		Entrypoint:        "btx.launcher.task",
		WorkDir:           workDir,
		DefaultFacility:   "SLAC",
		DefaultConfigFile: "config.yaml",
		Slurm: Slurm{
			SubmitCmd: "sbatch",
			CancelCmd: "scancel",
			Time:      "10:00:00",
			Template:  slurmTemplate,
		},
		Relay: Relay{
			PollInterval: Duration(time.Second * 5),
			Timeout:      Duration(time.Minute * 10),
		},
		Logger: logger.DefaultConfig(),
	}
}

// ToYaml formats the configuration into YAML and returns the bytes.
func ToYaml(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// ToYamlFile writes the configuration to a YAML file.
func ToYamlFile(c Config, path string) error {
	b, err := ToYaml(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// Parse parses a YAML doc into the given Config instance.
func Parse(raw []byte, conf *Config) error {
	return yaml.Unmarshal(raw, conf)
}

// ParseFile parses a launcher config file, which is formatted in YAML,
// into the given Config instance.
func ParseFile(relpath string, conf *Config) error {
	if relpath == "" {
		return nil
	}

	// Try to get absolute path. If it fails, fall back to relative path.
	path, abserr := filepath.Abs(relpath)
	if abserr != nil {
		path = relpath
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: %v", path, err)
	}

	err = Parse(source, conf)
	if err != nil {
		return fmt.Errorf("failed to parse config at path %s: %v", path, err)
	}
	return nil
}
