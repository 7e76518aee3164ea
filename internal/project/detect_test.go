package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestHasPackageManifest(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, HasPackageManifest(dir))

	writeFile(t, dir, "package.json", "{}")
	assert.True(t, HasPackageManifest(dir))
}

func TestIntrospectNextV4Project(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"dependencies": {"next": "^15.0.0", "react": "^19.0.0"},
		"devDependencies": {"tailwindcss": "^4.0.0"}
	}`)
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"paths": {"@/*": ["./*"]}}}`)
	writeFile(t, dir, "app/globals.css", `@import "tailwindcss";`)

	in := Introspect(dir)
	assert.Equal(t, FrameworkNext, in.Framework)
	assert.True(t, in.TypeScript)
	assert.False(t, in.SrcDir)
	assert.Equal(t, 4, in.TailwindVersion)
	assert.Equal(t, "app/globals.css", in.CSSPath)
	assert.Equal(t, "@", in.ImportAlias)
	assert.Equal(t, 19, in.ReactMajor)
	assert.True(t, StyleSheetImportsTailwind(dir, in.CSSPath))
}

func TestIntrospectViteV3Project(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"dependencies": {"react": "18.2.0"},
		"devDependencies": {"vite": "^5.0.0", "tailwindcss": "^3.4.0"}
	}`)
	writeFile(t, dir, "tailwind.config.js", "module.exports = {}")
	writeFile(t, dir, "src/index.css", "@tailwind base;")
	writeFile(t, dir, "jsconfig.json", `{"compilerOptions": {"paths": {"~/*": ["./src/*"]}}}`)

	in := Introspect(dir)
	assert.Equal(t, FrameworkVite, in.Framework)
	assert.False(t, in.TypeScript)
	assert.True(t, in.SrcDir)
	assert.Equal(t, 3, in.TailwindVersion)
	assert.Equal(t, "tailwind.config.js", in.TailwindConfigPath)
	assert.Equal(t, "src/index.css", in.CSSPath)
	assert.Equal(t, "~", in.ImportAlias)
	assert.Equal(t, 18, in.ReactMajor)
}

func TestIntrospectBareDirectory(t *testing.T) {
	dir := t.TempDir()

	in := Introspect(dir)
	assert.Equal(t, FrameworkUnknown, in.Framework)
	assert.Zero(t, in.TailwindVersion)
	assert.Empty(t, in.CSSPath)
	assert.Empty(t, in.ImportAlias)
}

func TestIntrospectTailwindConfigWithoutManifestVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies": {}}`)
	writeFile(t, dir, "tailwind.config.ts", "export default {}")

	in := Introspect(dir)
	assert.Equal(t, 3, in.TailwindVersion)
}

func TestDependencyMajorParsing(t *testing.T) {
	tests := []struct {
		version  string
		expected int
	}{
		{"^19.0.0", 19},
		{"~18.2.0", 18},
		{">=17", 17},
		{"19.0.0-rc.1", 19},
		{"workspace:*", 0},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			m := &packageManifest{Dependencies: map[string]string{"react": tt.version}}
			assert.Equal(t, tt.expected, dependencyMajor(m, "react"))
		})
	}
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		lockfile string
		expected PackageManager
	}{
		{"pnpm-lock.yaml", PNPM},
		{"yarn.lock", Yarn},
		{"bun.lockb", Bun},
		{"package-lock.json", NPM},
	}

	for _, tt := range tests {
		t.Run(tt.lockfile, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.lockfile, "")
			assert.Equal(t, tt.expected, DetectPackageManager(dir))
		})
	}

	t.Run("default npm", func(t *testing.T) {
		assert.Equal(t, NPM, DetectPackageManager(t.TempDir()))
	})
}

func TestInstallCommand(t *testing.T) {
	cmd, args := NPM.InstallCommand([]string{"clsx"}, false, true)
	assert.Equal(t, "npm", cmd)
	assert.Equal(t, []string{"install", "--legacy-peer-deps", "clsx"}, args)

	cmd, args = PNPM.InstallCommand([]string{"clsx"}, true, true)
	assert.Equal(t, "pnpm", cmd)
	assert.Equal(t, []string{"add", "-D", "clsx"}, args)

	cmd, args = Yarn.InstallCommand([]string{"clsx", "cva"}, false, false)
	assert.Equal(t, "yarn", cmd)
	assert.Equal(t, []string{"add", "clsx", "cva"}, args)
}
