package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds node identifiers and attribute names.
const maxIdentifierLength = 256

// ValidateNodeID validates a node identifier read from an input table.
//
// The rules are:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeSchema, "node identifier cannot be empty")
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeSchema, "node identifier too long (max %d characters)", maxIdentifierLength).WithNodes(id[:32] + "...")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeSchema, "node identifier contains invalid control characters").WithNodes(id)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeSchema, "node identifier has surrounding whitespace").WithNodes(id)
	}

	return nil
}

// attributeNameRegex matches attribute names usable inside term expressions.
var attributeNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*$`)

// ValidateAttributeName validates an attribute name declared in a schema.
// Names must start with a letter and contain only letters, digits, '_' and '.'
// so they can appear unquoted in a term such as absdiff(size).
func ValidateAttributeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "attribute name cannot be empty")
	}
	if len(name) > maxIdentifierLength {
		return New(ErrCodeInvalidConfig, "attribute name too long (max %d characters)", maxIdentifierLength)
	}
	if !attributeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid attribute name: %q", name)
	}
	return nil
}

// ValidatePath validates a local data file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsURL(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether source names a remote http(s) resource rather than
// a local file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ValidateSource validates a data source, which is either a local path or
// an http(s) URL.
func ValidateSource(source string) error {
	if IsURL(source) {
		return ValidateURL(source)
	}
	if strings.Contains(source, "://") {
		return New(ErrCodeInvalidInput, "unsupported source scheme: %q", source)
	}
	return ValidatePath(source)
}
