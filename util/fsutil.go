package util

import (
	"os"
)

// EnsureDir creates the directory path, and any missing parents,
// if it does not exist.
func EnsureDir(p string) error {
	return os.MkdirAll(p, 0755)
}
