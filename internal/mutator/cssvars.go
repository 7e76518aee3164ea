package mutator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var declPattern = regexp.MustCompile(`--([\w-]+)\s*:\s*([^;]+);`)

// applyCSSVars is step two: patch style variables into the project stylesheet
// under one managed block per mode. The stylesheet is created when absent.
func (m *Mutator) applyCSSVars(vars map[string]map[string]string, opts Options, res *Result) error {
	if len(vars) == 0 || !m.cfg.Tailwind.CSSVariables {
		return nil
	}

	path, content, created, err := m.readStyleSheet()
	if err != nil {
		return err
	}
	original := content

	if opts.CleanStarterStyles {
		content = stripStarterStyles(content)
	}

	for _, mode := range sortedModes(vars) {
		selector := modeSelector(mode)
		content = patchVariableBlock(content, selector, vars[mode], opts.Overwrite)
	}

	// A patch that changes nothing leaves the stylesheet untouched and
	// records no modification.
	if !created && content == original {
		return nil
	}

	return m.writeStyleSheet(path, content, created, res)
}

// applyCSS is step three: append raw stylesheet blocks items carry verbatim.
// A block already present in the stylesheet is not appended again.
func (m *Mutator) applyCSS(css string, res *Result) error {
	if strings.TrimSpace(css) == "" {
		return nil
	}

	path, content, created, err := m.readStyleSheet()
	if err != nil {
		return err
	}

	block := strings.TrimSpace(css)
	if strings.Contains(content, block) {
		return nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += "\n" + block + "\n"

	return m.writeStyleSheet(path, content, created, res)
}

func (m *Mutator) readStyleSheet() (path, content string, created bool, err error) {
	path, err = m.guard.Resolve(filepath.Join(m.projectDir, filepath.FromSlash(m.cfg.Tailwind.CSS)))
	if err != nil {
		return "", "", false, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return path, string(data), false, nil
	case errors.Is(err, fs.ErrNotExist):
		return path, "", true, nil
	default:
		return "", "", false, err
	}
}

func (m *Mutator) writeStyleSheet(path, content string, created bool, res *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	rel := m.cfg.Tailwind.CSS
	if created && !containsString(res.FilesCreated, rel) {
		res.FilesCreated = append(res.FilesCreated, rel)
	} else if !created && !containsString(res.FilesModified, rel) && !containsString(res.FilesCreated, rel) {
		res.FilesModified = append(res.FilesModified, rel)
	}
	return nil
}

// modeSelector maps a variable mode to the stylesheet selector that carries
// it. Base tokens live on :root, dark tokens on the .dark class, anything
// else on a class named after the mode.
func modeSelector(mode string) string {
	switch mode {
	case "base", "light":
		return ":root"
	case "dark":
		return ".dark"
	default:
		return "." + mode
	}
}

// patchVariableBlock rewrites the managed block for one selector. Without
// overwrite, existing declarations survive and incoming values win per key;
// with overwrite, the block is rebuilt from the incoming set alone.
func patchVariableBlock(content, selector string, incoming map[string]string, overwrite bool) string {
	blockPattern := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(selector) + `\s*\{([^{}]*)\}`)

	match := blockPattern.FindStringSubmatchIndex(content)

	existing := map[string]string{}
	var order []string
	if match != nil && !overwrite {
		for _, decl := range declPattern.FindAllStringSubmatch(content[match[2]:match[3]], -1) {
			name := decl[1]
			if _, seen := existing[name]; !seen {
				order = append(order, name)
			}
			existing[name] = strings.TrimSpace(decl[2])
		}
	}

	for _, name := range sortedKeys(incoming) {
		if _, seen := existing[name]; !seen {
			order = append(order, name)
		}
		existing[name] = incoming[name]
	}

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, name := range order {
		fmt.Fprintf(&b, "  --%s: %s;\n", name, existing[name])
	}
	b.WriteString("}")
	block := b.String()

	if match != nil {
		return content[:match[0]] + block + content[match[1]:]
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + block + "\n"
}

// stripStarterStyles removes scaffold styling a fresh project ships with so
// the style's own tokens start from a clean slate: prefers-color-scheme media
// blocks and :root blocks that declare no custom properties.
func stripStarterStyles(content string) string {
	content = stripBalancedBlocks(content, "@media (prefers-color-scheme:")

	rootPattern := regexp.MustCompile(`(?s):root\s*\{([^{}]*)\}\n?`)
	return rootPattern.ReplaceAllStringFunc(content, func(block string) string {
		if strings.Contains(block, "--") {
			return block
		}
		return ""
	})
}

// stripBalancedBlocks removes every block starting at marker through its
// matching closing brace.
func stripBalancedBlocks(content, marker string) string {
	for {
		start := strings.Index(content, marker)
		if start < 0 {
			return content
		}
		open := strings.Index(content[start:], "{")
		if open < 0 {
			return content
		}

		depth := 0
		end := -1
		for i := start + open; i < len(content); i++ {
			switch content[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = i + 1
				}
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			return content
		}
		if end < len(content) && content[end] == '\n' {
			end++
		}
		content = content[:start] + content[end:]
	}
}

func sortedModes(vars map[string]map[string]string) []string {
	modes := make([]string, 0, len(vars))
	for mode := range vars {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool {
		return modeRank(modes[i]) < modeRank(modes[j]) ||
			(modeRank(modes[i]) == modeRank(modes[j]) && modes[i] < modes[j])
	})
	return modes
}

// modeRank keeps :root ahead of .dark ahead of custom modes in the patched
// stylesheet regardless of map iteration order.
func modeRank(mode string) int {
	switch mode {
	case "base", "light":
		return 0
	case "dark":
		return 1
	default:
		return 2
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
