// Package derive computes the write-time derived fields of a post: slug,
// read time, and excerpt. All functions are pure given their inputs; the
// service layer applies them as one atomic transformation before persisting.
package derive

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// wordsPerMinute is the assumed average reading speed.
	wordsPerMinute = 200
	// excerptRunes is the maximum excerpt length before the ellipsis.
	excerptRunes = 250
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9 ]+`)
	slugSpaceRe    = regexp.MustCompile(` +`)
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	whitespaceOnly = regexp.MustCompile(`^\s*$`)
)

// Slug converts a title into a URL-safe, globally unique identifier:
// lowercase, [a-z0-9-] only, space runs collapsed to single hyphens, with a
// random token appended so identical titles never collide.
func Slug(title string) string {
	return SlugWithToken(title, uuid.New().String()[:8])
}

// SlugWithToken is Slug with a caller-supplied uniqueness token, for
// deterministic tests. The token must already be URL-safe.
func SlugWithToken(title, token string) string {
	base := strings.ToLower(title)
	base = slugStripRe.ReplaceAllString(base, "")
	base = strings.TrimSpace(base)
	base = slugSpaceRe.ReplaceAllString(base, "-")
	if base == "" {
		return token
	}
	return base + "-" + token
}

// ReadTime estimates reading time in whole minutes for the given content,
// never less than one minute.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Excerpt produces a plain-text summary of HTML content: tags stripped, the
// first 250 characters, with an ellipsis appended iff the text was truncated.
func Excerpt(content string) string {
	text := htmlTagRe.ReplaceAllString(content, "")
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return string(runes[:excerptRunes]) + "..."
}

// Blank reports whether s carries no visible content.
func Blank(s string) bool {
	return whitespaceOnly.MatchString(s)
}
