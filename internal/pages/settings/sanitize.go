// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"strings"
	"time"

	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/pkg/convert"
)

// dateLayout is the wire and storage format of date fields.
const dateLayout = "2006-01-02"

/*
Sanitize reduces an arbitrary client payload to the write allowlist.

Keys outside the allowlist are dropped silently so newer clients can send
additive payloads to older servers. Kept values are normalized:

  - An empty wedding_date becomes null (the DATE column rejects "").
  - Numeric fields accept numbers or numeric strings; "" becomes null.
  - Toggles accept booleans or "on"/"off"; they are stored as "on"/"off".
  - A null for a NOT NULL field is dropped, so the stored value is preserved.

Sanitize is idempotent: Sanitize(Sanitize(x)) == Sanitize(x).

Returns:
  - Fields: The normalized subset
  - error: VALIDATION_ERROR listing every allowlisted key whose value has
    the wrong shape
*/
func Sanitize(payload map[string]any) (Fields, error) {
	sanitized := make(Fields, len(payload))
	var invalid []apperr.FieldError

	for key, raw := range payload {
		spec, ok := allowlist[key]
		if !ok {
			continue
		}

		value, keep, err := normalize(spec, raw)
		if err != nil {
			invalid = append(invalid, apperr.FieldError{Field: key, Message: err.Error()})
			continue
		}
		if keep {
			sanitized[key] = value
		}
	}

	if len(invalid) > 0 {
		return nil, apperr.ValidationError("Invalid settings values", invalid...)
	}

	return sanitized, nil
}

type normalizeError string

func (e normalizeError) Error() string { return string(e) }

// normalize returns the canonical value for one allowlisted field.
// keep is false when the key must be left out of the write entirely.
func normalize(spec fieldSpec, raw any) (value any, keep bool, err error) {
	if raw == nil {
		return nil, !spec.notNull, nil
	}

	switch spec.kind {
	case kindDate:
		text, ok := raw.(string)
		if !ok {
			return nil, false, normalizeError("Must be a date string (YYYY-MM-DD)")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, true, nil
		}
		date, ok := parseDate(text)
		if !ok {
			return nil, false, normalizeError("Must be a date string (YYYY-MM-DD)")
		}
		return date, true, nil

	case kindNumber:
		if text, isText := raw.(string); isText && strings.TrimSpace(text) == "" {
			return nil, true, nil
		}
		number, ok := convert.ToFloat(raw)
		if !ok {
			return nil, false, normalizeError("Must be a number")
		}
		return number, true, nil

	case kindToggle:
		if text, isText := raw.(string); isText && strings.TrimSpace(text) == "" {
			return nil, !spec.notNull, nil
		}
		toggle, ok := convert.ToToggle(raw)
		if !ok {
			return nil, false, normalizeError("Must be 'on' or 'off'")
		}
		return toggle, true, nil

	default:
		text, ok := convert.ToText(raw)
		if !ok {
			return nil, false, normalizeError("Must be a string")
		}
		return text, true, nil
	}
}

// parseDate accepts "YYYY-MM-DD" or an ISO timestamp and returns "YYYY-MM-DD".
func parseDate(text string) (string, bool) {
	if len(text) > len(dateLayout) && text[len(dateLayout)] == 'T' {
		text = text[:len(dateLayout)]
	}
	date, err := time.Parse(dateLayout, text)
	if err != nil {
		return "", false
	}
	return date.Format(dateLayout), true
}
