package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// PublicURL returns absURL when set, else `path` joined to the public base URL.
// Empty when there is nothing to point at.
func PublicURL(base, absURL, path string) string {
	if absURL != "" {
		return absURL
	}
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
