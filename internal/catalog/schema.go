package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	itemNamePattern  = regexp.MustCompile(`^[A-Za-z0-9@][A-Za-z0-9/_.@-]*$`)
	styleNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

	itemKinds = map[string]struct{}{
		KindStyle:     {},
		KindTheme:     {},
		KindBlock:     {},
		KindComponent: {},
		KindUI:        {},
		KindHook:      {},
		KindLib:       {},
		KindFile:      {},
	}
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("item_name", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return itemNamePattern.MatchString(name) && !strings.Contains(name, "..")
		})

		_ = v.RegisterValidation("item_kind", func(fl validator.FieldLevel) bool {
			_, ok := itemKinds[fl.Field().String()]
			return ok
		})

		_ = v.RegisterValidation("style_name", func(fl validator.FieldLevel) bool {
			return styleNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateItem checks a parsed catalog item against the expected shape,
// returning a field-by-field SchemaViolationError on mismatch.
func ValidateItem(item *Item) error {
	if item == nil {
		return forgeuierrors.NewSchemaViolation("catalog item", []forgeuierrors.FieldViolation{
			{Field: "item", Message: "document is empty"},
		}, nil)
	}
	return convertValidationError("catalog item", validatorInstance().Struct(item))
}

// ValidateSummary checks one index entry.
func ValidateSummary(summary *ItemSummary) error {
	if summary == nil {
		return forgeuierrors.NewSchemaViolation("index entry", []forgeuierrors.FieldViolation{
			{Field: "entry", Message: "document is empty"},
		}, nil)
	}
	return convertValidationError("index entry", validatorInstance().Struct(summary))
}

// ValidateBaseColor checks a color-theme document.
func ValidateBaseColor(color *BaseColor) error {
	if color == nil {
		return forgeuierrors.NewSchemaViolation("base color", []forgeuierrors.FieldViolation{
			{Field: "color", Message: "document is empty"},
		}, nil)
	}
	return convertValidationError("base color", validatorInstance().Struct(color))
}

// ValidateStyleName rejects style names outside the restricted character
// class before they are spliced into catalog URLs.
func ValidateStyleName(style string) error {
	if styleNamePattern.MatchString(style) {
		return nil
	}
	return forgeuierrors.NewInvalidReference(style, "style name must match [a-z0-9-]+")
}

func convertValidationError(entity string, err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		violations := make([]forgeuierrors.FieldViolation, 0, len(ves))
		for _, ve := range ves {
			violations = append(violations, forgeuierrors.FieldViolation{
				Field:   jsonishFieldName(ve),
				Message: fmt.Sprintf("failed validation for tag '%s'", ve.Tag()),
			})
		}
		return forgeuierrors.NewSchemaViolation(entity, violations, err)
	}

	return forgeuierrors.NewSchemaViolation(entity, []forgeuierrors.FieldViolation{
		{Field: entity, Message: err.Error()},
	}, err)
}

func jsonishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
