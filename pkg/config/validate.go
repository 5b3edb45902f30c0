package config

import (
	stderrors "errors"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/term"
)

var validate = validator.New()

// Validate checks field constraints, then the cross-field rules: attribute
// names, unique model names, parseable terms and render mappings that name
// declared attributes.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := c.Schema().Validate(); err != nil {
		return err
	}
	if err := errors.ValidateSource(c.Data.Adjacency); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "data.adjacency")
	}
	if err := errors.ValidateSource(c.Data.Attributes); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "data.attributes")
	}

	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if seen[m.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "model %q declared twice", m.Name)
		}
		seen[m.Name] = true
		for _, expr := range m.Terms {
			if _, err := term.Parse(expr); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "model %s", m.Name)
			}
		}
	}

	declared := make([]string, len(c.Attributes))
	for i, a := range c.Attributes {
		declared[i] = a.Name
	}
	mappings := []struct{ field, attr string }{
		{"label", c.Render.Label},
		{"size", c.Render.Size},
		{"color", c.Render.Color},
	}
	for _, m := range mappings {
		if m.attr != "" && !slices.Contains(declared, m.attr) {
			return errors.New(errors.ErrCodeInvalidConfig, "render.%s: attribute %q is not declared", m.field, m.attr)
		}
	}
	return nil
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}

	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required", "required_if":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required", field)
	case "min":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must have at least %s entries", field, e.Param())
	case "max", "lte", "lt":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s", field, e.Param())
	case "gte", "gt":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be above %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not one of [%s]", field, e.Value(), e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}
