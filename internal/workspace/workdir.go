package workspace

import "os"

// ConventionDir is preferred over any environment or caller input when it
// exists on the host.
const ConventionDir = "/workspace"

// WorkspaceEnvVar names the environment override for the workspace root.
const WorkspaceEnvVar = "FORGEUI_WORKSPACE"

// DirProbe reports whether a path exists and is a directory. Injected so the
// three resolution branches are each unit-testable.
type DirProbe func(path string) bool

// EnvLookup reads an environment variable. Injected for the same reason.
type EnvLookup func(key string) string

// DefaultProbe checks the real file system.
func DefaultProbe(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ResolveWorkDir picks the working directory for file-mutating operations.
// Priority order: the fixed convention directory when present, then the
// environment-declared workspace, then the caller-supplied value.
func ResolveWorkDir(probe DirProbe, env EnvLookup, supplied string) string {
	if probe == nil {
		probe = DefaultProbe
	}
	if env == nil {
		env = os.Getenv
	}

	if probe(ConventionDir) {
		return ConventionDir
	}
	if dir := env(WorkspaceEnvVar); dir != "" {
		return dir
	}
	return supplied
}
