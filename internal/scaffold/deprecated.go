package scaffold

import (
	"github.com/forgeui/forgeui/internal/project"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// deprecatedComponents maps retired component names to their replacement.
// The retirement only binds on framework v4 projects; v3 projects keep the
// old component working.
var deprecatedComponents = map[string]string{
	"toast": "sonner",
}

func checkDeprecated(name string, cfg *project.Config) error {
	replacement, ok := deprecatedComponents[name]
	if !ok {
		return nil
	}
	// An empty config path means the style framework is configured from CSS,
	// which is the v4 layout.
	if cfg.Tailwind.Config != "" {
		return nil
	}
	return forgeuierrors.NewDeprecatedComponent(name, replacement)
}
