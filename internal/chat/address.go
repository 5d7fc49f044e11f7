package chat

import (
	"regexp"
	"strings"

	"github.com/Milad704/socialmedia/pkg/apperr"
)

const keySeparator = "_"

// DirectKey derives the storage key of a 1:1 conversation from its two
// participant ids. Commutative: both sides compute the same key without
// coordination.
func DirectKey(a, b string) string {
	if a < b {
		return a + keySeparator + b
	}
	return b + keySeparator + a
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	disallowedRunes = regexp.MustCompile(`[^a-z0-9_]`)
)

// SanitizeGroupName turns a display name into a group id candidate: lowercase,
// whitespace collapsed to underscores, everything else outside [a-z0-9_]
// stripped. A name with nothing left after stripping is rejected.
func SanitizeGroupName(name string) (string, error) {
	candidate := strings.ToLower(strings.TrimSpace(name))
	candidate = whitespaceRun.ReplaceAllString(candidate, keySeparator)
	candidate = disallowedRunes.ReplaceAllString(candidate, "")
	if strings.Trim(candidate, keySeparator) == "" {
		return "", apperr.ErrEmptyGroupName
	}
	return candidate, nil
}
