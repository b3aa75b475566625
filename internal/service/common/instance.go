//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"
)

// AnotherInstanceRunning reports whether a process with the given
// executable name (other than the current process) is already running.
// The comparison ignores a Windows ".exe" suffix.
func AnotherInstanceRunning(executableName string) (bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}

	wanted := normalizeExecutableName(executableName)
	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if normalizeExecutableName(process.Executable()) == wanted {
			return true, nil
		}
	}

	return false, nil
}

// normalizeExecutableName lower-cases the name and drops an ".exe" suffix.
func normalizeExecutableName(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
