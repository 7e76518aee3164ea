package initializer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeui/forgeui/internal/catalog"
	"github.com/forgeui/forgeui/internal/project"
	"github.com/forgeui/forgeui/internal/resolver"
	"github.com/forgeui/forgeui/internal/workspace"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

type fakeResolver struct {
	tree     *resolver.Tree
	err      error
	lastOpts resolver.Options
}

func (f *fakeResolver) Resolve(_ context.Context, _ []string, opts resolver.Options) (*resolver.Tree, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.tree, nil
}

type noopRunner struct{}

func (noopRunner) Run(context.Context, string, string, []string) ([]byte, error) { return nil, nil }

func styleIndexTree() *resolver.Tree {
	return &resolver.Tree{Items: []*catalog.Item{
		{
			Name: "slate",
			Kind: catalog.KindTheme,
			CSSVars: map[string]map[string]string{
				"light": {"background": "0 0% 100%"},
				"dark":  {"background": "0 0% 4%"},
			},
		},
		{
			Name: "index",
			Kind: catalog.KindStyle,
			Files: []catalog.File{
				{Path: "utils.ts", Content: "export const cn = () => \"\"\n", Kind: catalog.KindLib},
			},
			Dependencies: []string{"clsx"},
		},
	}}
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func scaffoldNextProject(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "package.json", `{
		"dependencies": {"next": "^15.0.0", "react": "^19.0.0"},
		"devDependencies": {"tailwindcss": "^4.0.0"}
	}`)
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"paths": {"@/*": ["./*"]}}}`)
	writeFile(t, dir, "app/globals.css", "@import \"tailwindcss\";\n")
}

func newTestInitializer(t *testing.T, dir string, res ItemResolver) *Initializer {
	t.Helper()
	guard, err := workspace.NewGuard(dir)
	require.NoError(t, err)
	return New(res, guard, noopRunner{}, nil)
}

func TestRunInitializesNextProject(t *testing.T) {
	dir := t.TempDir()
	scaffoldNextProject(t, dir)

	fake := &fakeResolver{tree: styleIndexTree()}
	init := newTestInitializer(t, dir, fake)

	res, err := init.Run(context.Background(), Options{ProjectDir: dir})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "initialized")

	cfg, err := project.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Style)
	assert.True(t, cfg.RSC)
	assert.True(t, cfg.TSX)
	assert.Equal(t, "app/globals.css", cfg.Tailwind.CSS)
	assert.Empty(t, cfg.Tailwind.Config)
	assert.Equal(t, "slate", cfg.Tailwind.BaseColor)
	assert.True(t, cfg.Tailwind.CSSVariables)
	assert.Equal(t, "@/components", cfg.Aliases.Components)
	assert.Equal(t, "@/lib/utils", cfg.Aliases.Utils)

	assert.Equal(t, "slate", fake.lastOpts.BaseColor)

	css, err := os.ReadFile(filepath.Join(dir, "app", "globals.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), "--background: 0 0% 100%;")
	assert.Contains(t, string(css), ".dark")

	utils, err := os.ReadFile(filepath.Join(dir, "lib", "utils.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(utils), "cn")
}

func TestRunKeepsConfigPathForV3Projects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"devDependencies": {"vite": "^5.0.0", "tailwindcss": "^3.4.0"}}`)
	writeFile(t, dir, "tailwind.config.js", "module.exports = {}")
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"paths": {"@/*": ["./src/*"]}}}`)
	writeFile(t, dir, "src/index.css", "@tailwind base;\n")

	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})
	_, err := init.Run(context.Background(), Options{ProjectDir: dir})
	require.NoError(t, err)

	cfg, err := project.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "tailwind.config.js", cfg.Tailwind.Config)
	assert.Equal(t, "src/index.css", cfg.Tailwind.CSS)
}

func TestRunRejectsDirectoryWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})

	_, err := init.Run(context.Background(), Options{ProjectDir: dir})
	var missing *forgeuierrors.MissingProjectError
	require.ErrorAs(t, err, &missing)
}

func TestRunRejectsExistingConfigWithoutForce(t *testing.T) {
	dir := t.TempDir()
	scaffoldNextProject(t, dir)
	writeFile(t, dir, project.ConfigFileName, "{}")

	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})

	_, err := init.Run(context.Background(), Options{ProjectDir: dir})
	var exists *forgeuierrors.ConfigExistsError
	require.ErrorAs(t, err, &exists)

	_, err = init.Run(context.Background(), Options{ProjectDir: dir, Force: true})
	require.NoError(t, err)
}

func TestRunRejectsProjectWithoutStyleFramework(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies": {"react": "^18.0.0"}}`)
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"paths": {"@/*": ["./*"]}}}`)

	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})

	_, err := init.Run(context.Background(), Options{ProjectDir: dir})
	var notConfigured *forgeuierrors.StyleFrameworkNotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
}

func TestRunRejectsProjectWithoutImportAlias(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"devDependencies": {"tailwindcss": "^4.0.0"}}`)
	writeFile(t, dir, "app/globals.css", "@import \"tailwindcss\";\n")

	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})

	_, err := init.Run(context.Background(), Options{ProjectDir: dir})
	var aliasMissing *forgeuierrors.ImportAliasMissingError
	require.ErrorAs(t, err, &aliasMissing)
}

func TestRunPrefersSrcLayoutWithoutStylesheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"dependencies": {"next": "^15.0.0"},
		"devDependencies": {"tailwindcss": "^3.4.0"}
	}`)
	writeFile(t, dir, "tailwind.config.js", "module.exports = {}")
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"paths": {"@/*": ["./src/*"]}}}`)

	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})
	_, err := init.Run(context.Background(), Options{ProjectDir: dir, SrcDir: true})
	require.NoError(t, err)

	cfg, err := project.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "src/app/globals.css", cfg.Tailwind.CSS)
	assert.FileExists(t, filepath.Join(dir, "src", "app", "globals.css"))
}

func TestRunRejectsV3ProjectWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"devDependencies": {"tailwindcss": "^3.4.0"}}`)
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"paths": {"@/*": ["./*"]}}}`)
	writeFile(t, dir, "src/index.css", "@tailwind base;\n")

	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})

	_, err := init.Run(context.Background(), Options{ProjectDir: dir})
	var notConfigured *forgeuierrors.StyleFrameworkNotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Contains(t, err.Error(), "tailwind.config")
}

func TestRunRejectsV4ProjectWithoutImportingStylesheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"devDependencies": {"tailwindcss": "^4.0.0"}}`)
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"paths": {"@/*": ["./*"]}}}`)
	writeFile(t, dir, "app/globals.css", "body { margin: 0; }\n")

	init := newTestInitializer(t, dir, &fakeResolver{tree: styleIndexTree()})

	_, err := init.Run(context.Background(), Options{ProjectDir: dir})
	var notConfigured *forgeuierrors.StyleFrameworkNotConfiguredError
	require.ErrorAs(t, err, &notConfigured)
	assert.Contains(t, err.Error(), "stylesheet")
}

func TestRunHonorsStyleAndColorOverrides(t *testing.T) {
	dir := t.TempDir()
	scaffoldNextProject(t, dir)

	fake := &fakeResolver{tree: styleIndexTree()}
	init := newTestInitializer(t, dir, fake)

	_, err := init.Run(context.Background(), Options{
		ProjectDir:     dir,
		Style:          "new-york",
		BaseColor:      "zinc",
		NoCSSVariables: true,
	})
	require.NoError(t, err)

	cfg, err := project.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "new-york", cfg.Style)
	assert.Equal(t, "zinc", cfg.Tailwind.BaseColor)
	assert.False(t, cfg.Tailwind.CSSVariables)
	assert.Equal(t, "zinc", fake.lastOpts.BaseColor)
}
