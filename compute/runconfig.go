package compute

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RunConfigPath derives the per-run config path from the base path by
// replacing the file extension with "_<run>.yaml".
// "scratch/foo.yaml" with run "7" becomes "scratch/foo_7.yaml".
func RunConfigPath(base, run string) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + run + ".yaml"
}

// WriteRunConfig stream-edits the base task config into the per-run config
// at out. Every occurrence of the literal token "run:" has the run number
// spliced in after the key, leaving the prior value behind a comment; all
// other lines are copied unchanged. The file is regenerated on every call,
// never cached. No structural YAML parsing happens here.
func WriteRunConfig(base, out, run string) error {
	in, err := os.Open(base)
	if err != nil {
		return fmt.Errorf("opening base config: %v", err)
	}
	defer in.Close()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating run config: %v", err)
	}

	w := bufio.NewWriter(f)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "run:") {
			line = strings.ReplaceAll(line, "run:", "run: "+run+" #")
		}
		fmt.Fprintln(w, line)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return fmt.Errorf("reading base config: %v", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
