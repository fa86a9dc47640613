package utils

import (
	"fmt"

	"github.com/thoas/go-funk"
)

// ExtractStringValue uses go-funk to extract a string value from a submission
// payload using the specified property name. Non-string scalars are rendered
// with their default formatting; a missing property yields the empty string.
func ExtractStringValue(payload any, propertyName string) string {
	if propertyName == "" {
		return ""
	}

	value := funk.Get(payload, propertyName)
	if value == nil {
		return ""
	}

	if strVal, ok := value.(string); ok {
		return strVal
	}

	return fmt.Sprintf("%v", value)
}

// ExtractBoolValue extracts a truthy flag from a submission payload. Legacy
// clients submit checkbox state as "1"/"0" strings, so those are accepted too.
func ExtractBoolValue(payload any, propertyName string) bool {
	if propertyName == "" {
		return false
	}

	value := funk.Get(payload, propertyName)
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "1" || v == "true" || v == "on"
	default:
		return false
	}
}
