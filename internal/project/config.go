// Package project models the persisted per-project configuration descriptor
// and the introspection that derives it from an existing code base.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// ConfigFileName is the descriptor's location at the project root.
const ConfigFileName = "components.json"

// SchemaURL identifies the descriptor schema.
const SchemaURL = "https://registry.forgeui.dev/schema.json"

// Tailwind holds the style-framework portion of the descriptor. Config is
// empty for v4 projects, which configure the framework from CSS.
type Tailwind struct {
	Config       string `json:"config,omitempty"`
	CSS          string `json:"css" validate:"required"`
	BaseColor    string `json:"baseColor" validate:"required"`
	CSSVariables bool   `json:"cssVariables"`
	Prefix       string `json:"prefix,omitempty"`
}

// Aliases are the import-alias roots file writes resolve against.
type Aliases struct {
	Components string `json:"components" validate:"required"`
	Utils      string `json:"utils" validate:"required"`
	UI         string `json:"ui,omitempty"`
	Lib        string `json:"lib,omitempty"`
	Hooks      string `json:"hooks,omitempty"`
}

// Config is the Project Configuration Descriptor persisted at the project
// root. It is created once by initialization and read-only afterwards;
// rewriting it requires explicit force intent from the caller.
type Config struct {
	Schema      string   `json:"$schema,omitempty"`
	Style       string   `json:"style" validate:"required"`
	RSC         bool     `json:"rsc"`
	TSX         bool     `json:"tsx"`
	Tailwind    Tailwind `json:"tailwind"`
	Aliases     Aliases  `json:"aliases"`
	IconLibrary string   `json:"iconLibrary,omitempty"`

	// Workspaces maps a package role to its root relative to the workspace
	// boundary, for multi-root setups where UI primitives live in a package
	// other than the invoking project.
	Workspaces map[string]string `json:"workspaces,omitempty"`
}

var (
	configValidatorOnce sync.Once
	configValidator     *validator.Validate
)

func validatorInstance() *validator.Validate {
	configValidatorOnce.Do(func() {
		configValidator = validator.New()
	})
	return configValidator
}

// Validate checks the descriptor shape.
func Validate(cfg *Config) error {
	if cfg == nil {
		return forgeuierrors.NewSchemaViolation("project config", []forgeuierrors.FieldViolation{
			{Field: "config", Message: "document is empty"},
		}, nil)
	}

	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		violations := make([]forgeuierrors.FieldViolation, 0, len(ves))
		for _, ve := range ves {
			violations = append(violations, forgeuierrors.FieldViolation{
				Field:   strings.ToLower(ve.StructNamespace()),
				Message: "failed validation for tag '" + ve.Tag() + "'",
			})
		}
		return forgeuierrors.NewSchemaViolation("project config", violations, err)
	}
	return forgeuierrors.NewSchemaViolation("project config", nil, err)
}

// ConfigPath returns the descriptor path for a project directory.
func ConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ConfigFileName)
}

// Exists reports whether a descriptor is already present.
func Exists(projectDir string) bool {
	_, err := os.Stat(ConfigPath(projectDir))
	return err == nil
}

// Load reads and validates the descriptor for a project directory.
func Load(projectDir string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(projectDir))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, forgeuierrors.NewSchemaViolation("project config", []forgeuierrors.FieldViolation{
			{Field: "config", Message: err.Error()},
		}, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the descriptor atomically: marshal to a temporary file in the
// same directory, then rename over the target.
func (c *Config) Save(projectDir string) error {
	if err := Validate(c); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := ConfigPath(projectDir)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// AliasDir converts an import alias like "@/components/ui" into a directory
// relative to the project root, honoring a src/ layout when present.
func AliasDir(alias, projectDir string) string {
	rel := alias
	if i := strings.Index(rel, "/"); i >= 0 {
		rel = rel[i+1:]
	} else {
		rel = ""
	}

	base := projectDir
	if info, err := os.Stat(filepath.Join(projectDir, "src")); err == nil && info.IsDir() {
		base = filepath.Join(projectDir, "src")
	}
	if rel == "" {
		return base
	}
	return filepath.Join(base, filepath.FromSlash(rel))
}
