package util

import (
	"path/filepath"
	"testing"

	"github.com/lcls-users/btx-launch/config"
)

func TestMergeConfigFileWithFlags(t *testing.T) {
	fileConf := config.DefaultConfig()
	fileConf.Image = "/images/from_file.sif"
	fileConf.WorkDir = "/from/file"
	path := filepath.Join(t.TempDir(), "launch.yaml")
	if err := config.ToYamlFile(fileConf, path); err != nil {
		t.Fatal("unexpected error", err)
	}

	flagConf := config.Config{WorkDir: "/from/flags"}
	result, err := MergeConfigFileWithFlags(path, flagConf)
	if err != nil {
		t.Fatal("unexpected error", err)
	}

	if result.WorkDir != "/from/flags" {
		t.Fatal("flag value must override the file value, got", result.WorkDir)
	}
	if result.Image != "/images/from_file.sif" {
		t.Fatal("unexpected image", result.Image)
	}
	if result.Slurm.SubmitCmd != "sbatch" {
		t.Fatal("unexpected submit command", result.Slurm.SubmitCmd)
	}
}
