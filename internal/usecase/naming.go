package usecase

import (
	"regexp"
	"strings"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	repeatedUnders  = regexp.MustCompile(`_+`)
)

// SanitizeProjectName turns a declared contract name into a package slug.
// Characters outside [A-Za-z0-9_-] become underscores, the result is
// lowercased with underscore runs collapsed, and prefix is prepended when
// it would start with a digit. An empty result yields fallback.
func SanitizeProjectName(name, prefix, fallback string) string {
	slug := unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	slug = repeatedUnders.ReplaceAllString(strings.ToLower(slug), "_")
	if slug == "" {
		return fallback
	}
	if slug[0] >= '0' && slug[0] <= '9' {
		slug = prefix + slug
	}
	return slug
}

// ProgramName sanitizes a name for an Anchor program, which doubles as a
// Rust crate and library target name and so cannot contain '-'.
func ProgramName(name string) string {
	slug := SanitizeProjectName(strings.ReplaceAll(name, "-", "_"), "anchor_", "anchor_contract")
	return repeatedUnders.ReplaceAllString(slug, "_")
}

// solidityFileName names the generated source after the contract
func solidityFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Contract"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".sol") {
		name += ".sol"
	}
	return name
}
