// Package initializer bootstraps a project for catalog components: it checks
// prerequisites, derives and persists the configuration descriptor, then
// applies the configured style's entry point.
package initializer

import (
	"context"
	"path"

	"github.com/forgeui/forgeui/internal/logger"
	"github.com/forgeui/forgeui/internal/merge"
	"github.com/forgeui/forgeui/internal/mutator"
	"github.com/forgeui/forgeui/internal/project"
	"github.com/forgeui/forgeui/internal/resolver"
	"github.com/forgeui/forgeui/internal/workspace"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// Defaults for options the caller leaves unset.
const (
	DefaultStyle     = "default"
	DefaultBaseColor = "slate"
)

// ItemResolver is the resolution surface initialization depends on.
type ItemResolver interface {
	Resolve(ctx context.Context, refs []string, opts resolver.Options) (*resolver.Tree, error)
}

// Options parameterizes one initialization run.
type Options struct {
	ProjectDir string
	Style      string
	BaseColor  string

	// NoCSSVariables opts out of variable-driven theming; the zero value
	// keeps the conventional default on.
	NoCSSVariables bool

	// SrcDir prefers src/-rooted default paths when introspection finds no
	// stylesheet to go by.
	SrcDir bool

	// Force rewrites an existing descriptor instead of refusing.
	Force bool
}

// Initializer runs the bootstrap sequence against one workspace.
type Initializer struct {
	resolver ItemResolver
	guard    *workspace.Guard
	runner   mutator.CommandRunner
	log      *logger.Logger
}

// New creates an Initializer. runner may be nil to use the real package
// manager.
func New(res ItemResolver, guard *workspace.Guard, runner mutator.CommandRunner, log *logger.Logger) *Initializer {
	return &Initializer{
		resolver: res,
		guard:    guard,
		runner:   runner,
		log:      log.WithComponent("initializer"),
	}
}

// Run validates the project, persists the derived descriptor, and applies the
// style entry point. Existing scaffold files are overwritten: initialization
// owns the project's styling baseline.
func (i *Initializer) Run(ctx context.Context, opts Options) (*mutator.Result, error) {
	dir, err := i.guard.Resolve(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	if opts.Style == "" {
		opts.Style = DefaultStyle
	}
	if opts.BaseColor == "" {
		opts.BaseColor = DefaultBaseColor
	}

	cfg, err := i.deriveConfig(dir, opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.Save(dir); err != nil {
		return nil, err
	}
	i.log.WithFields(map[string]any{"dir": dir, "style": cfg.Style}).Info("project descriptor written")

	tree, err := i.resolver.Resolve(ctx, []string{resolver.IndexSentinel}, resolver.Options{
		BaseColor: cfg.Tailwind.BaseColor,
	})
	if err != nil {
		return nil, err
	}

	m, err := mutator.New(cfg, i.guard, dir, i.runner, i.log)
	if err != nil {
		return nil, err
	}

	res, err := m.Apply(ctx, merge.Merge(tree.Items), []string{cfg.Style}, mutator.Options{
		Overwrite:          true,
		CleanStarterStyles: true,
	})
	if err != nil {
		return nil, err
	}
	res.Message = "Project initialized with style \"" + cfg.Style + "\". " + res.Message
	return res, nil
}

// deriveConfig checks prerequisites and derives the descriptor from what the
// project already contains. Each failed prerequisite maps to a distinct
// error so callers can relay the exact remediation.
func (i *Initializer) deriveConfig(dir string, opts Options) (*project.Config, error) {
	if !project.HasPackageManifest(dir) {
		return nil, forgeuierrors.NewMissingProject(dir)
	}
	if project.Exists(dir) && !opts.Force {
		return nil, forgeuierrors.NewConfigExists(project.ConfigPath(dir))
	}

	in := project.Introspect(dir)
	switch {
	case in.TailwindVersion == 0:
		return nil, forgeuierrors.NewStyleFrameworkNotConfigured(dir,
			"no tailwindcss dependency or configuration file found")
	case in.TailwindVersion < 4 && in.TailwindConfigPath == "":
		return nil, forgeuierrors.NewStyleFrameworkNotConfigured(dir,
			"tailwindcss v3 is installed but no tailwind.config file exists")
	case in.TailwindVersion >= 4 && !project.StyleSheetImportsTailwind(dir, in.CSSPath):
		return nil, forgeuierrors.NewStyleFrameworkNotConfigured(dir,
			"tailwindcss v4 is installed but no stylesheet imports it")
	}
	if in.ImportAlias == "" {
		return nil, forgeuierrors.NewImportAliasMissing(dir)
	}

	alias := in.ImportAlias
	cfg := &project.Config{
		Schema: project.SchemaURL,
		Style:  opts.Style,
		RSC:    in.Framework == project.FrameworkNext,
		TSX:    in.TypeScript,
		Tailwind: project.Tailwind{
			CSS:          cssPath(in, opts.SrcDir),
			BaseColor:    opts.BaseColor,
			CSSVariables: !opts.NoCSSVariables,
		},
		Aliases: project.Aliases{
			Components: path.Join(alias, "components"),
			Utils:      path.Join(alias, "lib", "utils"),
			UI:         path.Join(alias, "components", "ui"),
			Lib:        path.Join(alias, "lib"),
			Hooks:      path.Join(alias, "hooks"),
		},
	}
	if in.TailwindVersion < 4 {
		cfg.Tailwind.Config = in.TailwindConfigPath
	}

	return cfg, nil
}

// cssPath prefers the stylesheet introspection found; otherwise it falls
// back to the framework's conventional location.
func cssPath(in *project.Introspection, srcDir bool) string {
	if in.CSSPath != "" {
		return in.CSSPath
	}

	src := srcDir || in.SrcDir
	if in.Framework == project.FrameworkNext {
		if src {
			return "src/app/globals.css"
		}
		return "app/globals.css"
	}
	if src {
		return "src/index.css"
	}
	return "index.css"
}
