package mutator

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgeui/forgeui/internal/merge"
)

// applyStyleConfig is step one: fold the merged style-framework fragment into
// the project's configuration file. Projects without a configuration file
// (framework v4 keeps its setup in the stylesheet) skip this step entirely.
func (m *Mutator) applyStyleConfig(fragment map[string]any, res *Result) error {
	if len(fragment) == 0 {
		return nil
	}
	if m.cfg.Tailwind.Config == "" {
		m.log.Debug("no style framework config file declared, skipping config merge")
		return nil
	}

	path, err := m.guard.Resolve(filepath.Join(m.projectDir, filepath.FromSlash(m.cfg.Tailwind.Config)))
	if err != nil {
		return err
	}

	// Code-based configs (.js/.ts) cannot be merged structurally. Surface the
	// fragment in the log so the caller can apply it by hand.
	if !strings.HasSuffix(path, ".json") {
		pretty, _ := json.MarshalIndent(fragment, "", "  ")
		m.log.WithFields(map[string]any{"config": m.cfg.Tailwind.Config}).
			Warn("style framework config is not JSON, merge it manually:\n" + string(pretty))
		return nil
	}

	existing := map[string]any{}
	created := true
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		created = false
		if err := json.Unmarshal(data, &existing); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	merged := merge.DeepMerge(existing, fragment)
	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if !created && string(out) == string(data) {
		res.FilesSkipped = append(res.FilesSkipped, m.cfg.Tailwind.Config)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}

	if created {
		res.FilesCreated = append(res.FilesCreated, m.cfg.Tailwind.Config)
	} else {
		res.FilesModified = append(res.FilesModified, m.cfg.Tailwind.Config)
	}
	return nil
}
