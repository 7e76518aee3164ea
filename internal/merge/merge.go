// Package merge folds the configuration contributions of a resolved item
// list into one deterministic result. Order is the resolution order: themes
// come first, so later, more specific items override base tokens.
package merge

import (
	"strings"

	"github.com/forgeui/forgeui/internal/catalog"
)

// Result is the deep-merged output of one resolved tree.
type Result struct {
	Dependencies    []string
	DevDependencies []string
	Files           []catalog.File
	TailwindConfig  map[string]any
	CSSVars         map[string]map[string]string
	CSS             string
	Docs            string
}

// Merge folds items in order. List fields are concatenated then deduplicated
// by identity key: package name for dependencies, target path for files,
// where the last writer for a given path wins. Tree fields deep-merge
// left-to-right with later leaves overriding earlier ones; arrays are
// replaced wholesale. Docs are newline-joined text blocks.
func Merge(items []*catalog.Item) *Result {
	res := &Result{
		TailwindConfig: map[string]any{},
		CSSVars:        map[string]map[string]string{},
	}

	var cssBlocks []string
	var docBlocks []string

	for _, item := range items {
		res.Dependencies = append(res.Dependencies, item.Dependencies...)
		res.DevDependencies = append(res.DevDependencies, item.DevDependencies...)
		res.Files = append(res.Files, item.Files...)

		if item.Tailwind != nil && item.Tailwind.Config != nil {
			res.TailwindConfig = DeepMerge(res.TailwindConfig, item.Tailwind.Config)
		}

		for mode, vars := range item.CSSVars {
			merged, ok := res.CSSVars[mode]
			if !ok {
				merged = make(map[string]string, len(vars))
				res.CSSVars[mode] = merged
			}
			for key, value := range vars {
				merged[key] = value
			}
		}

		if item.CSS != "" {
			cssBlocks = append(cssBlocks, item.CSS)
		}
		if item.Docs != "" {
			docBlocks = append(docBlocks, item.Docs)
		}
	}

	res.Dependencies = dedupeStrings(res.Dependencies)
	res.DevDependencies = dedupeStrings(res.DevDependencies)
	res.Files = dedupeFiles(res.Files)
	res.CSS = strings.Join(cssBlocks, "\n")
	res.Docs = strings.Join(docBlocks, "\n")

	return res
}

// DeepMerge merges src into dst and returns dst. Overlapping object keys
// recurse; overlapping leaves take src's value; arrays are replaced, not
// concatenated. dst is mutated.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, srcVal := range src {
		if srcMap, ok := srcVal.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				dst[key] = DeepMerge(dstMap, srcMap)
				continue
			}
			dst[key] = DeepMerge(make(map[string]any, len(srcMap)), srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// dedupeFiles keeps one entry per target path. Later contributions replace
// earlier ones in place, so a block can override a file a theme shipped
// while keeping the theme's position in the write order.
func dedupeFiles(files []catalog.File) []catalog.File {
	if len(files) == 0 {
		return nil
	}
	index := make(map[string]int, len(files))
	out := make([]catalog.File, 0, len(files))
	for _, f := range files {
		key := f.TargetPath()
		if i, ok := index[key]; ok {
			out[i] = f
			continue
		}
		index[key] = len(out)
		out = append(out, f)
	}
	return out
}
