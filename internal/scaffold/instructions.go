package scaffold

import (
	"fmt"

	"github.com/forgeui/forgeui/internal/initializer"
)

// InitInstructions returns the guidance text an agent should follow before
// running initialization. It is static per style; nothing is fetched.
func (s *Service) InitInstructions(style string) string {
	if style == "" {
		style = initializer.DefaultStyle
	}

	return fmt.Sprintf(`Before initializing, make sure the target directory satisfies the prerequisites:

1. A package.json must exist. Initialization configures an existing project; it does not scaffold one.
2. Tailwind CSS must be installed. v4 projects need a stylesheet that imports "tailwindcss"; v3 projects need a tailwind.config file.
3. An import alias (for example "@/*") must be declared under compilerOptions.paths in tsconfig.json or jsconfig.json.

Then call execute_init. It writes a components.json descriptor configured for the %q style, applies the style's base files and design tokens, and installs the packages the style depends on. Pass force=true only if an existing components.json should be replaced.

After initialization succeeds, add components with execute_add.`, style)
}
