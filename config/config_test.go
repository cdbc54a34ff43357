package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	conf := DefaultConfig()

	if conf.Slurm.SubmitCmd != "sbatch" {
		t.Fatal("unexpected submit command")
	}
	if conf.Slurm.CancelCmd != "scancel" {
		t.Fatal("unexpected cancel command")
	}
	if conf.Slurm.Time != "10:00:00" {
		t.Fatal("unexpected wall-clock limit")
	}
	if conf.DefaultFacility != "SLAC" {
		t.Fatal("unexpected default facility")
	}
	if !strings.HasSuffix(conf.WorkDir, ".btx") {
		t.Fatal("unexpected work dir", conf.WorkDir)
	}
	if !strings.Contains(conf.Slurm.Template, "#SBATCH --partition") {
		t.Fatal("template missing partition directive")
	}
}

func TestRelayConfigParsing(t *testing.T) {
	yaml := `
Relay:
  Disabled: true
  PollInterval: 2s
  Timeout: 1m
`
	conf := DefaultConfig()
	err := Parse([]byte(yaml), &conf)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	if !conf.Relay.Disabled {
		t.Fatal("expected relay to be disabled")
	}
	if time.Duration(conf.Relay.PollInterval) != time.Second*2 {
		t.Fatal("unexpected poll interval")
	}
	if time.Duration(conf.Relay.Timeout) != time.Minute {
		t.Fatal("unexpected timeout")
	}

	// untouched fields keep their defaults
	if conf.Slurm.SubmitCmd != "sbatch" {
		t.Fatal("unexpected submit command")
	}
}

func TestParseFileRoundTrip(t *testing.T) {
	conf := DefaultConfig()
	conf.Image = "/images/btx_test.sif"
	conf.Relay.Timeout = Duration(time.Second * 30)

	path := filepath.Join(t.TempDir(), "launch.yaml")
	if err := ToYamlFile(conf, path); err != nil {
		t.Fatal("unexpected error", err)
	}

	loaded := DefaultConfig()
	if err := ParseFile(path, &loaded); err != nil {
		t.Fatal("unexpected error", err)
	}

	if loaded.Image != "/images/btx_test.sif" {
		t.Fatal("unexpected image", loaded.Image)
	}
	if time.Duration(loaded.Relay.Timeout) != time.Second*30 {
		t.Fatal("unexpected timeout", loaded.Relay.Timeout)
	}
}

func TestParseFileMissing(t *testing.T) {
	conf := DefaultConfig()
	err := ParseFile(filepath.Join(t.TempDir(), "nope.yaml"), &conf)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to read config") {
		t.Fatal("unexpected error", err)
	}
}
