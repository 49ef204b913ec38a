package service

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify turns a title into a URL-safe slug: lowercase, whitespace to
// hyphens, everything else that is not alphanumeric stripped. A title
// with no usable characters falls back to "post".
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "post"
	}
	return slug
}

// SuffixedSlug returns the base slug for n == 0 and "base-n" otherwise.
func SuffixedSlug(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
