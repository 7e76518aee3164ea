package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

func validItem() *Item {
	return &Item{
		Name: "button",
		Kind: KindUI,
		Files: []File{
			{Path: "ui/button.tsx", Content: "export const Button = () => null", Kind: KindUI},
		},
		Dependencies: []string{"@radix-ui/react-slot"},
	}
}

func TestValidateItemAccepted(t *testing.T) {
	assert.NoError(t, ValidateItem(validItem()))
}

func TestValidateItemRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Item)
		field  string
	}{
		{
			name:   "missing name",
			mutate: func(i *Item) { i.Name = "" },
			field:  "item.name",
		},
		{
			name:   "traversal in name",
			mutate: func(i *Item) { i.Name = "../button" },
			field:  "item.name",
		},
		{
			name:   "missing kind",
			mutate: func(i *Item) { i.Kind = "" },
			field:  "item.kind",
		},
		{
			name:   "unknown kind",
			mutate: func(i *Item) { i.Kind = "registry:gadget" },
			field:  "item.kind",
		},
		{
			name:   "file without path",
			mutate: func(i *Item) { i.Files[0].Path = "" },
			field:  "item.files[0].path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(item)

			err := ValidateItem(item)
			require.Error(t, err)

			var sv *forgeuierrors.SchemaViolationError
			require.True(t, errors.As(err, &sv))
			require.NotEmpty(t, sv.Violations)
			assert.Equal(t, tt.field, sv.Violations[0].Field)
		})
	}
}

func TestValidateItemReportsAllViolations(t *testing.T) {
	item := validItem()
	item.Name = ""
	item.Kind = "bogus"

	err := ValidateItem(item)
	require.Error(t, err)

	var sv *forgeuierrors.SchemaViolationError
	require.True(t, errors.As(err, &sv))
	assert.Len(t, sv.Violations, 2)
}

func TestValidateItemNil(t *testing.T) {
	assert.Error(t, ValidateItem(nil))
}

func TestValidateStyleName(t *testing.T) {
	assert.NoError(t, ValidateStyleName("new-york"))
	assert.NoError(t, ValidateStyleName("default"))
	assert.Error(t, ValidateStyleName(""))
	assert.Error(t, ValidateStyleName("New York"))
	assert.Error(t, ValidateStyleName("../default"))
	assert.Error(t, ValidateStyleName("style/other"))
}

func TestValidateSummary(t *testing.T) {
	assert.NoError(t, ValidateSummary(&ItemSummary{Name: "button", Kind: KindUI}))
	assert.Error(t, ValidateSummary(&ItemSummary{Name: "button"}))
	assert.Error(t, ValidateSummary(nil))
}

func TestValidateBaseColor(t *testing.T) {
	assert.NoError(t, ValidateBaseColor(&BaseColor{Name: "slate"}))
	assert.Error(t, ValidateBaseColor(&BaseColor{}))
}

func TestBaseColorThemeItem(t *testing.T) {
	color := &BaseColor{
		Name: "slate",
		CSSVars: map[string]map[string]string{
			"light": {"background": "0 0% 100%"},
		},
	}

	item := color.ThemeItem()
	assert.Equal(t, "slate", item.Name)
	assert.Equal(t, KindTheme, item.Kind)
	assert.Equal(t, "0 0% 100%", item.CSSVars["light"]["background"])
}
