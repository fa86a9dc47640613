package domain

import (
	"fmt"
	"time"
)

// Kind tags the concrete widget a field renders as. Kind-specific behavior is
// dispatched through the capability set in KindSpec, not on the tag itself.
type Kind string

const (
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindDropdown Kind = "dropdown"
	KindCheckbox Kind = "checkbox"
)

// FormatChecker validates a raw submitted value against the kind's format.
type FormatChecker func(raw string) error

// DefaultValueStrategy computes the value a field is prefilled with.
type DefaultValueStrategy func(field FieldDefinition) string

// KindSpec is the capability set a field kind supplies to the core.
type KindSpec struct {
	FormatChecker   FormatChecker
	DefaultValue    DefaultValueStrategy
	SupportsOptions bool

	// ValueIsFlag marks kinds whose submitted value carries checked state
	// rather than text; required then means the flag must be truthy.
	ValueIsFlag bool
}

var kindRegistry = map[Kind]KindSpec{
	KindText: {
		FormatChecker: func(raw string) error { return nil },
		DefaultValue:  func(f FieldDefinition) string { return f.Default },
	},
	KindDate: {
		FormatChecker: checkDateFormat,
		DefaultValue:  dateDefaultValue,
	},
	KindDropdown: {
		FormatChecker:   func(raw string) error { return nil },
		DefaultValue:    func(f FieldDefinition) string { return f.Default },
		SupportsOptions: true,
	},
	KindCheckbox: {
		FormatChecker: func(raw string) error { return nil },
		DefaultValue:  func(f FieldDefinition) string { return f.Default },
		ValueIsFlag:   true,
	},
}

// SpecFor resolves the capability set for a kind. Unknown kinds are a
// structural error at the caller.
func SpecFor(kind Kind) (KindSpec, error) {
	spec, ok := kindRegistry[kind]
	if !ok {
		return KindSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return spec, nil
}

func checkDateFormat(raw string) error {
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return fmt.Errorf("value is not a valid date: %w", err)
	}
	return nil
}

// Date fields without an explicit default prefill with today.
func dateDefaultValue(f FieldDefinition) string {
	if f.Default != "" {
		return f.Default
	}
	return time.Now().Format("2006-01-02")
}
