package main

import (
	"os"

	"github.com/forgeui/forgeui/internal/catalog"
	"github.com/forgeui/forgeui/internal/initializer"
	"github.com/forgeui/forgeui/internal/logger"
	"github.com/forgeui/forgeui/internal/resolver"
	"github.com/forgeui/forgeui/internal/scaffold"
	"github.com/forgeui/forgeui/internal/workspace"
)

const (
	registryEnvVar = "FORGEUI_REGISTRY_URL"
	styleEnvVar    = "FORGEUI_STYLE"

	defaultRegistryURL = "https://registry.forgeui.dev"
)

// appContext holds everything a command needs, built once per invocation.
type appContext struct {
	svc   *scaffold.Service
	guard *workspace.Guard
	log   *logger.Logger
}

// newAppContext wires the service stack. The workspace boundary is resolved
// once here and never changes for the rest of the invocation.
func newAppContext(flags *rootFlags, humanReadable bool) (*appContext, error) {
	level := "info"
	if flags.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: humanReadable})
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root := workspace.ResolveWorkDir(nil, nil, cwd)
	guard, err := workspace.NewGuard(root)
	if err != nil {
		return nil, err
	}

	registry := flags.registry
	if registry == "" {
		registry = os.Getenv(registryEnvVar)
	}
	if registry == "" {
		registry = defaultRegistryURL
	}

	style := flags.style
	if style == "" {
		style = os.Getenv(styleEnvVar)
	}
	if style == "" {
		style = initializer.DefaultStyle
	}

	client, err := catalog.New(catalog.Options{
		BaseURL: registry,
		Style:   style,
		Guard:   guard,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}

	res := resolver.New(client, log)
	init := initializer.New(res, guard, nil, log)

	svc := scaffold.New(scaffold.Options{
		Catalog:     client,
		Resolver:    res,
		Initializer: init,
		Guard:       guard,
		Log:         log,
	})

	return &appContext{svc: svc, guard: guard, log: log}, nil
}
