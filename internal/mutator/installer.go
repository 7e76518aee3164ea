package mutator

import (
	"context"
	"os/exec"

	"github.com/forgeui/forgeui/internal/project"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// CommandRunner executes one external command in a working directory. The
// seam exists so tests can observe install invocations without a package
// manager on the machine.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args []string) ([]byte, error)
}

// ExecRunner is the production CommandRunner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// installDependencies is step four: install runtime then development packages
// with the project's own package manager. Re-installing an already present
// package is a no-op for every supported manager, so the step is idempotent.
func (m *Mutator) installDependencies(ctx context.Context, deps, devDeps []string, res *Result) error {
	if len(deps) == 0 && len(devDeps) == 0 {
		return nil
	}
	if !project.HasPackageManifest(m.projectDir) {
		m.log.Warn("no package manifest found, skipping dependency installation")
		return nil
	}

	pm := project.DetectPackageManager(m.projectDir)

	// npm refuses peer-conflicting installs on React 19 trees without the
	// escape hatch.
	legacyPeerDeps := pm == project.NPM && project.Introspect(m.projectDir).ReactMajor >= 19

	if err := m.runInstall(ctx, pm, deps, false, legacyPeerDeps); err != nil {
		return err
	}
	if err := m.runInstall(ctx, pm, devDeps, true, legacyPeerDeps); err != nil {
		return err
	}

	res.DependenciesInstalled = append(res.DependenciesInstalled, deps...)
	res.DependenciesInstalled = append(res.DependenciesInstalled, devDeps...)
	return nil
}

func (m *Mutator) runInstall(ctx context.Context, pm project.PackageManager, packages []string, dev, legacyPeerDeps bool) error {
	if len(packages) == 0 {
		return nil
	}

	name, args := pm.InstallCommand(packages, dev, legacyPeerDeps)
	m.log.WithFields(map[string]any{"command": name, "args": args}).Debug("installing packages")

	output, err := m.runner.Run(ctx, m.projectDir, name, args)
	if err != nil {
		return forgeuierrors.NewCommandExecution(name, string(output), err)
	}
	return nil
}
