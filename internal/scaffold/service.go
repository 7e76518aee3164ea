// Package scaffold is the operation layer behind every tool and command:
// listing and fetching catalog items, initializing a project, and adding
// components to it. It owns working-directory resolution and the
// fail-fast checks that must run before any fetch or write.
package scaffold

import (
	"context"
	"fmt"

	"github.com/forgeui/forgeui/internal/catalog"
	"github.com/forgeui/forgeui/internal/initializer"
	"github.com/forgeui/forgeui/internal/logger"
	"github.com/forgeui/forgeui/internal/merge"
	"github.com/forgeui/forgeui/internal/mutator"
	"github.com/forgeui/forgeui/internal/project"
	"github.com/forgeui/forgeui/internal/resolver"
	"github.com/forgeui/forgeui/internal/workspace"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// Catalog is the read surface the service needs from the catalog client.
type Catalog interface {
	FetchIndex(ctx context.Context, fresh bool) ([]catalog.ItemSummary, error)
	FetchItem(ctx context.Context, ref string) (*catalog.Item, error)
}

// ItemResolver expands references into resolved trees.
type ItemResolver interface {
	Resolve(ctx context.Context, refs []string, opts resolver.Options) (*resolver.Tree, error)
}

// ProjectInitializer runs the bootstrap sequence.
type ProjectInitializer interface {
	Run(ctx context.Context, opts initializer.Options) (*mutator.Result, error)
}

// Options wires a Service together.
type Options struct {
	Catalog     Catalog
	Resolver    ItemResolver
	Initializer ProjectInitializer
	Guard       *workspace.Guard
	Runner      mutator.CommandRunner
	Probe       workspace.DirProbe
	Env         workspace.EnvLookup
	Log         *logger.Logger
}

// Service executes the catalog and project operations.
type Service struct {
	catalog  Catalog
	resolver ItemResolver
	init     ProjectInitializer
	guard    *workspace.Guard
	runner   mutator.CommandRunner
	probe    workspace.DirProbe
	env      workspace.EnvLookup
	log      *logger.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	return &Service{
		catalog:  opts.Catalog,
		resolver: opts.Resolver,
		init:     opts.Initializer,
		guard:    opts.Guard,
		runner:   opts.Runner,
		probe:    opts.Probe,
		env:      opts.Env,
		log:      opts.Log.WithComponent("scaffold"),
	}
}

// ListItems returns the catalog index. The read path always bypasses the
// cache so listings reflect the catalog as it is now.
func (s *Service) ListItems(ctx context.Context) ([]catalog.ItemSummary, error) {
	return s.catalog.FetchIndex(ctx, true)
}

// GetItem fetches one item by catalog name, URL, or local manifest path.
func (s *Service) GetItem(ctx context.Context, ref string) (*catalog.Item, error) {
	return s.catalog.FetchItem(ctx, ref)
}

// InitRequest parameterizes Init.
type InitRequest struct {
	ProjectDir     string
	Style          string
	BaseColor      string
	NoCSSVariables bool
	SrcDir         bool
	Force          bool
}

// InitResult couples the apply outcome with the descriptor file it produced,
// so callers can hand the written configuration back as a resource.
type InitResult struct {
	*mutator.Result
	ConfigPath string `json:"configPath"`
}

// Init initializes the project in the resolved working directory.
func (s *Service) Init(ctx context.Context, req InitRequest) (*InitResult, error) {
	dir := workspace.ResolveWorkDir(s.probe, s.env, req.ProjectDir)

	res, err := s.init.Run(ctx, initializer.Options{
		ProjectDir:     dir,
		Style:          req.Style,
		BaseColor:      req.BaseColor,
		NoCSSVariables: req.NoCSSVariables,
		SrcDir:         req.SrcDir,
		Force:          req.Force,
	})
	if err != nil {
		return nil, err
	}

	resolved, err := s.guard.Resolve(dir)
	if err != nil {
		return nil, err
	}
	return &InitResult{Result: res, ConfigPath: project.ConfigPath(resolved)}, nil
}

// AddRequest parameterizes Add.
type AddRequest struct {
	Components []string
	ProjectDir string
	Overwrite  bool
}

// Add resolves the requested components and applies them to the project.
// Fail-fast checks (empty request, uninitialized project, deprecated names)
// all run before the first catalog fetch.
func (s *Service) Add(ctx context.Context, req AddRequest) (*mutator.Result, error) {
	if len(req.Components) == 0 {
		return nil, forgeuierrors.NewEmptyComponentList()
	}

	dir := workspace.ResolveWorkDir(s.probe, s.env, req.ProjectDir)
	dir, err := s.guard.Resolve(dir)
	if err != nil {
		return nil, err
	}

	if !project.HasPackageManifest(dir) {
		return nil, forgeuierrors.NewMissingProject(dir)
	}
	if !project.Exists(dir) {
		return nil, fmt.Errorf("no %s found in %s; initialize the project first", project.ConfigFileName, dir)
	}

	cfg, err := project.Load(dir)
	if err != nil {
		return nil, err
	}

	for _, name := range req.Components {
		if err := checkDeprecated(name, cfg); err != nil {
			return nil, err
		}
	}

	tree, err := s.resolver.Resolve(ctx, req.Components, resolver.Options{
		BaseColor: cfg.Tailwind.BaseColor,
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]any{"requested": req.Components, "resolved": tree.Names()}).Debug("resolution complete")

	m, err := mutator.New(cfg, s.guard, dir, s.runner, s.log)
	if err != nil {
		return nil, err
	}

	return m.Apply(ctx, merge.Merge(tree.Items), req.Components, mutator.Options{
		Overwrite: req.Overwrite,
	})
}
