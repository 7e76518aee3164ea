package project

import (
	"os"
	"path/filepath"
)

// PackageManager identifies the JavaScript package manager driving installs.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	Bun  PackageManager = "bun"
)

var lockfiles = []struct {
	name    string
	manager PackageManager
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"package-lock.json", NPM},
}

// DetectPackageManager picks the package manager from the project's
// lockfile, defaulting to npm when none is present.
func DetectPackageManager(dir string) PackageManager {
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.name)); err == nil {
			return lf.manager
		}
	}
	return NPM
}

// InstallCommand builds the subprocess invocation that installs packages.
// legacyPeerDeps relaxes npm's peer-dependency strictness; other managers
// ignore it.
func (pm PackageManager) InstallCommand(packages []string, dev, legacyPeerDeps bool) (string, []string) {
	switch pm {
	case PNPM:
		args := []string{"add"}
		if dev {
			args = append(args, "-D")
		}
		return "pnpm", append(args, packages...)
	case Yarn:
		args := []string{"add"}
		if dev {
			args = append(args, "--dev")
		}
		return "yarn", append(args, packages...)
	case Bun:
		args := []string{"add"}
		if dev {
			args = append(args, "--dev")
		}
		return "bun", append(args, packages...)
	default:
		args := []string{"install"}
		if dev {
			args = append(args, "--save-dev")
		}
		if legacyPeerDeps {
			args = append(args, "--legacy-peer-deps")
		}
		return "npm", append(args, packages...)
	}
}
