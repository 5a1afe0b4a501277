package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	slugSeparators = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugIllegal    = strings.NewReplacer("/", "", "\\", "", "?", "", "#", "", "%", "")
)

// UniquenessCheck reports whether a slug candidate is already in use.
type UniquenessCheck func(candidate string) (bool, error)

// GenerateSlug derives a URL-safe slug from a title. Letters and digits of
// any script are preserved; everything else collapses to hyphens. Titles
// that normalize to nothing fall back to a whitespace-collapsed copy of the
// raw title with path-illegal characters stripped, and finally to a
// time-derived token, so the result is never empty. The returned slug is
// unique with respect to the check at the moment it was last queried;
// callers persisting it must still treat the store's unique index as the
// authority.
func GenerateSlug(title string, taken UniquenessCheck) (string, error) {
	base := normalizeTitle(title)
	if base == "" {
		base = fallbackSlug(title)
	}
	if base == "" {
		base = fmt.Sprintf("post-%d", time.Now().UnixMilli())
	}

	candidate := base
	for n := 1; ; n++ {
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func normalizeTitle(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	return strings.Trim(slugSeparators.ReplaceAllString(lowered, "-"), "-")
}

func fallbackSlug(title string) string {
	collapsed := slugWhitespace.ReplaceAllString(strings.TrimSpace(title), "-")
	return strings.Trim(slugIllegal.Replace(collapsed), "-")
}
