//go:build unix

package resolver

import (
	"os"

	"golang.org/x/sys/unix"
)

// isExecutable reports whether path is a regular file the current user may
// execute.
func isExecutable(path string) bool {
	if unix.Access(path, unix.X_OK) != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
