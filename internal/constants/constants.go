// Package constants defines global constants used throughout cloudprep.
// It includes version information, paths, poll budgets, and exit codes.
package constants

import "time"

var version = "0.0.0-development" // Updated by CI/CD pipeline at build time

// GetVersion returns the current version of cloudprep.
func GetVersion() *string {
	return &version
}

// ProjectName is the name of the CLI tool and application
const ProjectName = "cloudprep"

// ConfigDirName is the name of the configuration directory in the user's home directory
const ConfigDirName = ".cloudprep"

// ConfigFileName is the name of the global configuration file
const ConfigFileName = "config.yaml"

// ConfigDirPath returns the full path to the global configuration directory.
func ConfigDirPath(homeDir string) string {
	return homeDir + "/" + ConfigDirName
}

// ConfigFilePath returns the full path to the global configuration file
func ConfigFilePath(homeDir string) string {
	return ConfigDirPath(homeDir) + "/" + ConfigFileName
}

// Environment represents the execution environment (e.g., CLI, CI).
type Environment string

// Environment types for logger configuration
const (
	Development Environment = "development"
	Production  Environment = "production"
	CLI         Environment = "cli"
)

// Process exit codes. Enforcement failures (API enablement timeout,
// org-policy set failure, grant failure) all exit 1 so callers can
// distinguish "the project is not ready" from misconfiguration.
const (
	ExitSuccess            = 0
	ExitEnforcementFailure = 1
	ExitMissingVariable    = 2
	ExitMissingDependency  = 3
)

// API enablement poll budget: the control plane enables services
// asynchronously, so the reconciler re-lists enabled services until the
// API shows up or the budget is exhausted (100 * 6s = 10 minutes).
const (
	APIPollInterval    = 6 * time.Second
	APIPollMaxAttempts = 100
)

// DefaultAPIsFile and DefaultRolesFile are the line-delimited configuration
// lists read at startup, one entry per line, order-preserving.
const (
	DefaultAPIsFile  = "apis.txt"
	DefaultRolesFile = "roles.txt"
)

// ComputeServiceAccountSuffix is the fixed suffix of the implicit Compute
// Engine default service account used by Cloud Build.
const ComputeServiceAccountSuffix = "-compute@developer.gserviceaccount.com"

// BuilderDefaultRoles are granted to the implicit build service account.
// Recent platform changes removed the default grants to this identity, so a
// build pipeline that writes logs and pushes artifacts needs them provisioned
// explicitly.
var BuilderDefaultRoles = []string{
	"roles/logging.logWriter",
	"roles/storage.objectUser",
	"roles/artifactregistry.writer",
}

// RequiredExecutables are external tools the deployment that follows
// cloudprep depends on. Checked up front so a missing binary fails before
// any control-plane mutation.
var RequiredExecutables = []string{"terraform"}
