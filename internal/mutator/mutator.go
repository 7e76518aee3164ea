// Package mutator applies a merged resolution result to a target project:
// style-framework configuration, style variables, raw style sheet, package
// installation, and component file writes, in that fixed order. Later steps
// assume the on-disk effects of earlier ones.
package mutator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgeui/forgeui/internal/catalog"
	"github.com/forgeui/forgeui/internal/logger"
	"github.com/forgeui/forgeui/internal/merge"
	"github.com/forgeui/forgeui/internal/project"
	"github.com/forgeui/forgeui/internal/workspace"
	"github.com/forgeui/forgeui/pkg/diff"
)

// Options controls a single apply pass.
type Options struct {
	// Overwrite replaces existing component files and style variables
	// instead of skipping/merging them.
	Overwrite bool

	// CleanStarterStyles drops default scaffold styling before applying
	// variables. Only the initialization path sets it.
	CleanStarterStyles bool
}

// Result is the audit trail of one apply pass, returned to the caller and
// never persisted.
type Result struct {
	Success               bool
	Message               string
	ComponentsAdded       []string
	FilesCreated          []string
	FilesModified         []string
	FilesSkipped          []string
	DependenciesInstalled []string
}

// Mutator writes merged resolution results into one project, confined to the
// workspace boundary.
type Mutator struct {
	cfg        *project.Config
	guard      *workspace.Guard
	projectDir string
	runner     CommandRunner
	log        *logger.Logger
}

// New builds a Mutator for one project directory. The directory must already
// be inside the guard's boundary.
func New(cfg *project.Config, guard *workspace.Guard, projectDir string, runner CommandRunner, log *logger.Logger) (*Mutator, error) {
	resolved, err := guard.Resolve(projectDir)
	if err != nil {
		return nil, err
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Mutator{
		cfg:        cfg,
		guard:      guard,
		projectDir: resolved,
		runner:     runner,
		log:        log.WithComponent("mutator"),
	}, nil
}

// Apply runs the five mutation steps in order and reports per-file outcomes.
// componentNames is the caller's original request, echoed back in the result.
func (m *Mutator) Apply(ctx context.Context, merged *merge.Result, componentNames []string, opts Options) (*Result, error) {
	res := &Result{ComponentsAdded: componentNames}

	if err := m.applyStyleConfig(merged.TailwindConfig, res); err != nil {
		return nil, err
	}
	if err := m.applyCSSVars(merged.CSSVars, opts, res); err != nil {
		return nil, err
	}
	if err := m.applyCSS(merged.CSS, res); err != nil {
		return nil, err
	}
	if err := m.installDependencies(ctx, merged.Dependencies, merged.DevDependencies, res); err != nil {
		return nil, err
	}
	if err := m.writeFiles(merged.Files, opts, res); err != nil {
		return nil, err
	}

	res.Success = true
	res.Message = fmt.Sprintf("Added %d component(s): %d file(s) created, %d modified, %d skipped.",
		len(componentNames), len(res.FilesCreated), len(res.FilesModified), len(res.FilesSkipped))
	return res, nil
}

// writeFiles is step five: component/file payloads go to the directory their
// kind maps to, honoring the overwrite policy per target path.
func (m *Mutator) writeFiles(files []catalog.File, opts Options, res *Result) error {
	recordRoot := m.projectDir
	if uiRoot := m.uiPackageRoot(); uiRoot != "" {
		recordRoot = commonAncestor(m.projectDir, uiRoot)
	}

	for _, file := range files {
		target, err := m.targetPath(file)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(recordRoot, target)
		if err != nil {
			rel = target
		}
		rel = filepath.ToSlash(rel)

		existing, readErr := os.ReadFile(target)
		exists := readErr == nil

		if exists && !opts.Overwrite {
			res.FilesSkipped = append(res.FilesSkipped, rel)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(file.Content), 0o644); err != nil {
			return err
		}

		if exists {
			if d := diff.Unified(existing, []byte(file.Content), rel+" (existing)", rel+" (incoming)"); d != "" {
				m.log.WithFields(map[string]any{"file": rel}).Debug("overwriting:\n" + d)
			}
			res.FilesModified = append(res.FilesModified, rel)
		} else {
			res.FilesCreated = append(res.FilesCreated, rel)
		}
	}
	return nil
}

// targetPath maps a file payload to its absolute destination via the
// kind-to-alias mapping, validated against the workspace boundary.
func (m *Mutator) targetPath(file catalog.File) (string, error) {
	if file.Target != "" {
		return m.guard.Resolve(filepath.Join(m.projectDir, filepath.FromSlash(file.Target)))
	}

	var dir string
	switch file.Kind {
	case catalog.KindUI:
		if uiRoot := m.uiPackageRoot(); uiRoot != "" {
			dir = filepath.Join(uiRoot, "components")
		} else if m.cfg.Aliases.UI != "" {
			dir = project.AliasDir(m.cfg.Aliases.UI, m.projectDir)
		} else {
			dir = filepath.Join(project.AliasDir(m.cfg.Aliases.Components, m.projectDir), "ui")
		}
	case catalog.KindHook:
		if m.cfg.Aliases.Hooks != "" {
			dir = project.AliasDir(m.cfg.Aliases.Hooks, m.projectDir)
		} else {
			dir = filepath.Join(project.AliasDir(m.cfg.Aliases.Components, m.projectDir), "..", "hooks")
		}
	case catalog.KindLib:
		if m.cfg.Aliases.Lib != "" {
			dir = project.AliasDir(m.cfg.Aliases.Lib, m.projectDir)
		} else {
			dir = project.AliasDir(m.cfg.Aliases.Utils, m.projectDir)
		}
	case catalog.KindBlock, catalog.KindComponent:
		dir = project.AliasDir(m.cfg.Aliases.Components, m.projectDir)
	default:
		dir = m.projectDir
	}

	return m.guard.Resolve(filepath.Join(dir, filepath.FromSlash(file.Path)))
}

// uiPackageRoot returns the absolute root of the UI package for multi-root
// workspaces, or "" when UI primitives live in the invoking project.
func (m *Mutator) uiPackageRoot() string {
	rel, ok := m.cfg.Workspaces["ui"]
	if !ok || rel == "" {
		return ""
	}
	root := filepath.Join(m.guard.Root(), filepath.FromSlash(rel))
	if root == m.projectDir {
		return ""
	}
	return root
}

func commonAncestor(a, b string) string {
	aParts := strings.Split(filepath.Clean(a), string(filepath.Separator))
	bParts := strings.Split(filepath.Clean(b), string(filepath.Separator))

	var shared []string
	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if aParts[i] != bParts[i] {
			break
		}
		shared = append(shared, aParts[i])
	}
	joined := strings.Join(shared, string(filepath.Separator))
	if joined == "" {
		return string(filepath.Separator)
	}
	return joined
}
