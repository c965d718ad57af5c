package application

import (
	"fmt"
	"strings"
	"unicode"
)

// reservedChars cannot appear in an entry name on at least one supported platform
const reservedChars = `<>:"|?*/\`

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "sourcePath" -> "source path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"path":          "path",
		"name":          "name",
		"sourcePath":    "source path",
		"destination":   "destination",
		"destPath":      "destination path",
		"parentPath":    "parent path",
		"container":     "container",
		"manifestPath":  "manifest path",
		"newName":       "new name",
		"query":         "query",
		"exportName":    "export name",
		"destinationID": "destination",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateName checks that name can be used as a single file or directory
// name. Returns a NameError, which matches ErrInvalidName.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &NameError{Name: name, Reason: "name is empty"}
	case name == "." || name == "..":
		return &NameError{Name: name, Reason: "name is reserved"}
	case strings.TrimSpace(name) != name:
		return &NameError{Name: name, Reason: "name has leading or trailing spaces"}
	case strings.HasSuffix(name, "."):
		return &NameError{Name: name, Reason: "name ends with a dot"}
	}

	for _, r := range name {
		if strings.ContainsRune(reservedChars, r) {
			return &NameError{Name: name, Reason: fmt.Sprintf("name contains %q", r)}
		}
		if unicode.IsControl(r) {
			return &NameError{Name: name, Reason: "name contains a control character"}
		}
	}
	return nil
}
