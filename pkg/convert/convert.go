// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides loose type-conversion utilities for JSON payloads.

The page builder front-end is not consistent about types: coordinates arrive
as numbers or strings, toggles as booleans or "on"/"off". These helpers fold
those shapes into one canonical representation.
*/
package convert

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ToFloat converts a decoded JSON value to a float64.
//
// It accepts numbers of any Go numeric type, [json.Number] and numeric strings.
// ok is false for empty strings, nil and anything unparseable.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToText renders a scalar JSON value as a string.
// ok is false for nil and for composite values (objects, arrays).
func ToText(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	case int, int32, int64, float32:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// ToToggle folds a boolean-like value into "on" or "off".
//
// Booleans, "true"/"false", "1"/"0" and "on"/"off" (any case) are accepted;
// ok is false for anything else.
func ToToggle(value any) (string, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return "on", true
		}
		return "off", true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "true", "1":
			return "on", true
		case "off", "false", "0":
			return "off", true
		}
	case float64:
		if v == 1 {
			return "on", true
		}
		if v == 0 {
			return "off", true
		}
	case json.Number:
		return ToToggle(v.String())
	}
	return "", false
}
