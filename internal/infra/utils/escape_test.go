package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkup(t *testing.T) {
	assert.Equal(t, "Your name", EscapeMarkup("Your name"))
	assert.Equal(t, "Your name", EscapeMarkup("<b>Your name</b>"))
	assert.Equal(t, "Tom &amp; Jerry", EscapeMarkup("Tom & Jerry"))
	assert.Equal(t, "alert(1)", EscapeMarkup("<script>alert(1)</script>"))
}

func TestExtractStringValue(t *testing.T) {
	values := map[string]any{
		"text-1": "hello",
		"num-1":  float64(42),
	}

	assert.Equal(t, "hello", ExtractStringValue(values, "text-1"))
	assert.Equal(t, "42", ExtractStringValue(values, "num-1"))
	assert.Equal(t, "", ExtractStringValue(values, "missing"))
	assert.Equal(t, "", ExtractStringValue(values, ""))
}

func TestExtractBoolValue(t *testing.T) {
	values := map[string]any{
		"checked":   true,
		"legacy":    "1",
		"unchecked": "0",
	}

	assert.True(t, ExtractBoolValue(values, "checked"))
	assert.True(t, ExtractBoolValue(values, "legacy"))
	assert.False(t, ExtractBoolValue(values, "unchecked"))
	assert.False(t, ExtractBoolValue(values, "missing"))
}
