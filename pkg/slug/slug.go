// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug normalizes public page handles.
//
// # Usage
//
// Couples pick a handle (e.g. "minsu-jiyoung") that appears in their page URL.
// Handles are compared after normalization so "MinSu-JiYoung " and
// "minsu-jiyoung" address the same page.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonHandle matches any sequence of characters not allowed in a handle.
var nonHandle = regexp.MustCompile(`[^a-z0-9_-]+`)

// Handle normalizes a handle received from a request.
//
// Accents are stripped (NFD, then combining marks removed) and case is
// folded. A handle is an identifier, so only surrounding whitespace is
// forgiven: one that contains anything outside [a-z0-9_-] yields "".
func Handle(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, strings.TrimSpace(s))
	result = strings.ToLower(result)

	if nonHandle.MatchString(result) {
		return ""
	}
	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
