package processor

import (
	"fmt"
	"strings"
	"unicode"
)

// maxTitleLen caps the sanitized title portion of a local filename.
const maxTitleLen = 50

// SanitizeTitle reduces a story title to a filesystem-safe slug: letters,
// digits, hyphens and underscores survive, spaces become underscores, and
// the result is capped at 50 runes.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	safe := strings.TrimRight(b.String(), " ")
	safe = strings.ReplaceAll(safe, " ", "_")

	runes := []rune(safe)
	if len(runes) > maxTitleLen {
		runes = runes[:maxTitleLen]
	}
	return string(runes)
}

// LocalFilename is the deterministic cache filename for a story. The index
// prefix keeps names unique and stable across runs even when titles collide.
func LocalFilename(index int, title string) string {
	return fmt.Sprintf("story_%03d_%s.png", index, SanitizeTitle(title))
}
