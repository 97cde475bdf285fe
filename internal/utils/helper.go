package utils

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// SanitizeFileBase turns an uploaded file's base name into something safe to
// write to disk: whitespace becomes dashes, everything outside
// [a-zA-Z0-9_-] is dropped.
func SanitizeFileBase(input string) string {
	name := strings.TrimSpace(input)
	name = whitespace.ReplaceAllString(name, "-")
	name = nonAlnumRegex.ReplaceAllString(name, "")
	name = multiDashRegex.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "image"
	}
	return name
}

func StrPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func BoolPtr(b bool) *bool {
	return &b
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FirstNonEmpty returns the first non-blank value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
