package doctype

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CoerceValue converts an override record's raw string value into a typed
// value. The kind hint comes from the record's property_type column; when it
// is absent or unrecognised the conversion falls back to shape detection:
// "0"/"1" become numeric flags, "true"/"false" become booleans, then a
// structured (JSON) decode is attempted, and everything else stays a string.
func CoerceValue(raw, kind string) any {
	trimmed := strings.TrimSpace(raw)

	switch strings.TrimSpace(kind) {
	case "Check", "Int":
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
	case "Float", "Currency":
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}

	switch trimmed {
	case "0":
		return 0
	case "1":
		return 1
	case "true":
		return true
	case "false":
		return false
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		return decoded
	}

	return raw
}

// Truthy reports whether a coerced override value turns a boolean flag on.
func Truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed != "" && trimmed != "0" && !strings.EqualFold(trimmed, "false")
	}
	return value != nil
}

func parseOptions(source string) []string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	lines := strings.Split(source, "\n")
	options := make([]string, 0, len(lines))
	for _, line := range lines {
		options = append(options, strings.TrimSpace(line))
	}
	// Drop a trailing blank produced by a newline-terminated source, but keep
	// a leading blank: it is the conventional "no selection" choice.
	for len(options) > 1 && options[len(options)-1] == "" {
		options = options[:len(options)-1]
	}
	if len(options) == 1 && options[0] == "" {
		return nil
	}
	return options
}
