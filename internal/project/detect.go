package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Framework labels the detected application framework.
type Framework string

const (
	FrameworkNext    Framework = "next"
	FrameworkVite    Framework = "vite"
	FrameworkRemix   Framework = "remix"
	FrameworkUnknown Framework = "unknown"
)

// Introspection is everything initialization learns by probing a project
// directory.
type Introspection struct {
	Framework          Framework
	TypeScript         bool
	SrcDir             bool
	TailwindVersion    int // 3 or 4; 0 when the style framework is absent
	TailwindConfigPath string
	CSSPath            string
	ImportAlias        string // alias prefix, e.g. "@"
	ReactMajor         int
}

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// HasPackageManifest reports whether dir contains a package.json.
func HasPackageManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "package.json"))
	return err == nil && !info.IsDir()
}

// Introspect probes a project directory for the signals initialization
// needs. It never fails on partial information; absent signals are zero
// values for the orchestrator to judge.
func Introspect(dir string) *Introspection {
	in := &Introspection{Framework: FrameworkUnknown}

	manifest := readManifest(dir)
	if manifest != nil {
		in.Framework = detectFramework(manifest)
		in.ReactMajor = dependencyMajor(manifest, "react")
		in.TailwindVersion = tailwindMajor(manifest)
	}

	if info, err := os.Stat(filepath.Join(dir, "src")); err == nil && info.IsDir() {
		in.SrcDir = true
	}

	if _, err := os.Stat(filepath.Join(dir, "tsconfig.json")); err == nil {
		in.TypeScript = true
	}

	in.TailwindConfigPath = findTailwindConfig(dir)
	in.CSSPath = findStyleSheet(dir)
	in.ImportAlias = findImportAlias(dir)

	// A tailwind config without a manifest version signal still means v3.
	if in.TailwindVersion == 0 && in.TailwindConfigPath != "" {
		in.TailwindVersion = 3
	}

	return in
}

func readManifest(dir string) *packageManifest {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	return &manifest
}

func (m *packageManifest) dependency(name string) (string, bool) {
	if v, ok := m.Dependencies[name]; ok {
		return v, true
	}
	if v, ok := m.DevDependencies[name]; ok {
		return v, true
	}
	return "", false
}

func detectFramework(m *packageManifest) Framework {
	switch {
	case hasDep(m, "next"):
		return FrameworkNext
	case hasDep(m, "@remix-run/react"):
		return FrameworkRemix
	case hasDep(m, "vite"):
		return FrameworkVite
	default:
		return FrameworkUnknown
	}
}

func hasDep(m *packageManifest, name string) bool {
	_, ok := m.dependency(name)
	return ok
}

func dependencyMajor(m *packageManifest, name string) int {
	version, ok := m.dependency(name)
	if !ok {
		return 0
	}
	version = strings.TrimLeft(version, "^~>=v ")
	if i := strings.IndexAny(version, ".- "); i > 0 {
		version = version[:i]
	}
	major, err := strconv.Atoi(version)
	if err != nil {
		return 0
	}
	return major
}

func tailwindMajor(m *packageManifest) int {
	major := dependencyMajor(m, "tailwindcss")
	if major == 0 {
		return 0
	}
	return major
}

var tailwindConfigNames = []string{
	"tailwind.config.ts",
	"tailwind.config.js",
	"tailwind.config.cjs",
	"tailwind.config.mjs",
}

func findTailwindConfig(dir string) string {
	for _, name := range tailwindConfigNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return name
		}
	}
	return ""
}

var styleSheetCandidates = []string{
	"app/globals.css",
	"src/app/globals.css",
	"styles/globals.css",
	"src/styles/globals.css",
	"src/index.css",
	"app/app.css",
	"resources/css/app.css",
}

func findStyleSheet(dir string) string {
	for _, rel := range styleSheetCandidates {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err == nil {
			return rel
		}
	}
	return ""
}

// StyleSheetImportsTailwind reports whether the style sheet at rel (within
// dir) pulls the v4 framework in via CSS.
func StyleSheetImportsTailwind(dir, rel string) bool {
	if rel == "" {
		return false
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return false
	}
	content := string(data)
	return strings.Contains(content, `@import "tailwindcss"`) ||
		strings.Contains(content, "@import 'tailwindcss'") ||
		strings.Contains(content, "@tailwind base")
}

type tsConfig struct {
	CompilerOptions struct {
		Paths map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

func findImportAlias(dir string) string {
	for _, name := range []string{"tsconfig.json", "jsconfig.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var cfg tsConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			continue
		}
		if _, ok := cfg.CompilerOptions.Paths["@/*"]; ok {
			return "@"
		}
		patterns := make([]string, 0, len(cfg.CompilerOptions.Paths))
		for pattern := range cfg.CompilerOptions.Paths {
			patterns = append(patterns, pattern)
		}
		sort.Strings(patterns)
		for _, pattern := range patterns {
			alias := strings.TrimSuffix(pattern, "/*")
			if alias != "" && alias != pattern {
				return alias
			}
		}
	}
	return ""
}
