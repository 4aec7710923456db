package util

import (
	"strings"
	"unicode"
)

const maxSlugLength = 80

// Slugify lowercases the input, drops everything that is not a letter or
// digit, and collapses separators into single hyphens. The result is safe
// for URLs and unique indexes; an empty result means the title had no
// usable characters.
func Slugify(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))

	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			builder.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(builder.String(), "-")

	runes := []rune(slug)
	if len(runes) > maxSlugLength {
		slug = strings.Trim(string(runes[:maxSlugLength]), "-")
	}

	return slug
}
