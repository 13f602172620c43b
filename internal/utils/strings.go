package utils

import (
	"strings"
	"unicode"

	"github.com/PolarWolf314/strongroom/internal/ui"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// SanitizeTitle keeps letters, digits, spaces, underscores, and hyphens,
// trims trailing spaces, then turns the remaining spaces into underscores.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if isTitleRune(r) {
			b.WriteRune(r)
		}
	}
	safe := strings.TrimRight(b.String(), " ")
	return strings.ReplaceAll(safe, " ", "_")
}

func isTitleRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '_' || r == '-'
}
