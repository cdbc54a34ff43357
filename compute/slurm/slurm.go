// Package slurm implements the scheduler client for SLURM clusters.
package slurm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/lcls-users/btx-launch/config"
	"github.com/lcls-users/btx-launch/logger"
)

// Client submits and cancels jobs via the "sbatch" and "scancel"
// command line tools.
type Client struct {
	SubmitCmd string
	CancelCmd string
	Log       *logger.Logger
}

// NewClient returns a SLURM client configured from conf.
func NewClient(conf config.Slurm, log *logger.Logger) *Client {
	return &Client{
		SubmitCmd: conf.SubmitCmd,
		CancelCmd: conf.CancelCmd,
		Log:       log,
	}
}

// Submit submits the batch script via "sbatch" and returns the scheduler
// job ID parsed from its output. Submission failures are returned with
// the captured stderr.
func (c *Client) Submit(ctx context.Context, scriptPath string) (string, error) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.SubmitCmd, scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.Log.Error("batch submission failed",
			"script", scriptPath,
			"stderr", stderr.String(),
			"stdout", stdout.String(),
		)
		return "", fmt.Errorf("%s %s: %v: %s",
			c.SubmitCmd, scriptPath, err, strings.TrimSpace(stderr.String()))
	}

	return ExtractJobID(stdout.String()), nil
}

// Cancel cancels a job via "scancel".
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.CancelCmd, jobID)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %v: %s",
			c.CancelCmd, jobID, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

var submitRe = regexp.MustCompile(`(Submitted batch job )([0-9]+)\s*$`)

// ExtractJobID extracts the job id from the response returned by the
// `sbatch` command. Example response:
// Submitted batch job 2
func ExtractJobID(in string) string {
	return strings.TrimSpace(submitRe.ReplaceAllString(in, "$2"))
}
