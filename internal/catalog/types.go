// Package catalog defines the distributable item model and the client that
// fetches catalog documents over HTTP or from local manifests.
package catalog

// Item kinds. The kind tag picks the target directory during mutation and
// drives the theme-first ordering of resolved trees.
const (
	KindStyle     = "registry:style"
	KindTheme     = "registry:theme"
	KindBlock     = "registry:block"
	KindComponent = "registry:component"
	KindUI        = "registry:ui"
	KindHook      = "registry:hook"
	KindLib       = "registry:lib"
	KindFile      = "registry:file"
)

// File is a single file payload carried by an item. Kind selects the target
// directory; Path is relative to that directory.
type File struct {
	Path    string `json:"path" yaml:"path" validate:"required"`
	Content string `json:"content" yaml:"content"`
	Kind    string `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,item_kind"`
	Target  string `json:"target,omitempty" yaml:"target,omitempty"`
}

// TargetPath is the identity key for merge deduplication: the explicit
// target when declared, else the item-relative path.
func (f File) TargetPath() string {
	if f.Target != "" {
		return f.Target
	}
	return f.Path
}

// TailwindFragment is an item's contribution to the style-framework
// configuration, an arbitrary nested key/value tree merged across items.
type TailwindFragment struct {
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Item is the unit of distribution: one named entry in a catalog together
// with its files, package dependencies, style tokens, and references to the
// catalog items it builds on.
type Item struct {
	Name                 string                       `json:"name" yaml:"name" validate:"required,item_name"`
	Kind                 string                       `json:"type" yaml:"type" validate:"required,item_kind"`
	Description          string                       `json:"description,omitempty" yaml:"description,omitempty"`
	Files                []File                       `json:"files,omitempty" yaml:"files,omitempty" validate:"omitempty,dive"`
	Dependencies         []string                     `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies      []string                     `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
	RegistryDependencies []string                     `json:"registryDependencies,omitempty" yaml:"registryDependencies,omitempty"`
	Tailwind             *TailwindFragment            `json:"tailwind,omitempty" yaml:"tailwind,omitempty"`
	CSSVars              map[string]map[string]string `json:"cssVars,omitempty" yaml:"cssVars,omitempty"`
	CSS                  string                       `json:"css,omitempty" yaml:"css,omitempty"`
	Docs                 string                       `json:"docs,omitempty" yaml:"docs,omitempty"`

	// Unresolved marks a placeholder synthesized when a reference failed to
	// fetch during resolution. Placeholders keep one bad dependency from
	// sinking the whole request; downstream consumers can tell them apart
	// from genuinely empty items.
	Unresolved bool `json:"-" yaml:"-"`
}

// Placeholder builds the unresolved stand-in for a reference whose fetch
// failed.
func Placeholder(name string) *Item {
	return &Item{Name: name, Kind: KindComponent, Unresolved: true}
}

// ItemSummary is one entry of the catalog index document.
type ItemSummary struct {
	Name                 string   `json:"name" validate:"required,item_name"`
	Kind                 string   `json:"type" validate:"required,item_kind"`
	Description          string   `json:"description,omitempty"`
	RegistryDependencies []string `json:"registryDependencies,omitempty"`
}

// BaseColor is a named color-theme document used to seed style variables
// when a project opts into a base color.
type BaseColor struct {
	Name    string                       `json:"name" validate:"required,item_name"`
	Label   string                       `json:"label,omitempty"`
	CSSVars map[string]map[string]string `json:"cssVars,omitempty"`
}

// ThemeItem converts a base-color document into a synthetic theme item so it
// can be prepended to a resolved tree ahead of everything else.
func (b *BaseColor) ThemeItem() *Item {
	return &Item{
		Name:    b.Name,
		Kind:    KindTheme,
		CSSVars: b.CSSVars,
	}
}
