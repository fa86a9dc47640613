package usecases

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// decodeLegacySettings parses a legacy settings blob into a flat key/value
// map. Blobs were written by two generations of the old admin: most are
// JSON, the oldest are msgpack. An empty blob decodes to an empty map.
func decodeLegacySettings(blob []byte) (map[string]any, error) {
	if len(blob) == 0 {
		return map[string]any{}, nil
	}

	settings := make(map[string]any)
	if err := json.Unmarshal(blob, &settings); err == nil {
		return settings, nil
	}

	if err := msgpack.Unmarshal(blob, &settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}

	return settings, nil
}

// coerceBool applies loose truthiness to legacy values: the old admin stored
// booleans variously as bools, numbers and strings.
func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	case float64:
		return v != 0
	case int:
		return v != 0
	case int8:
		return v != 0
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case nil:
		return false
	}
	return true
}

// showOnLoadFromLegacy maps the legacy tri-state ShowOnLoad setting onto the
// boolean flag. The empty string meant "default", which was visible; the
// literal "Hide" is the only string that ever meant hidden.
func showOnLoadFromLegacy(value any) bool {
	if s, ok := value.(string); ok {
		if s == "" {
			return true
		}
		return coerceBool(s) && s != "Hide"
	}
	return coerceBool(value)
}
