// Package preflight verifies the run environment before any control-plane
// mutation: required external executables must be present and usable.
package preflight

import (
	"log/slog"
	"os/exec"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"
)

// Check verifies each named executable resolves on PATH. The first missing
// executable fails the run with MissingDependency (exit code 3), before any
// external state is touched.
func Check(executables []string) error {
	for _, name := range executables {
		path, err := exec.LookPath(name)
		if err != nil {
			return apperrors.ErrMissingDependency(name, err)
		}
		slog.Debug("dependency found", "executable", name, "path", path)
	}
	return nil
}
