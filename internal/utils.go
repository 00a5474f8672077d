package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Version is the themegrid release version
const Version = "0.4.0"

// SanitizeFilename creates a safe filename from a string.
// Diacritics are folded ("grêle" becomes "grele"), letters of any script are
// kept, everything else turns into an underscore.
func SanitizeFilename(s string) string {
	folded := FoldDiacritics(s)

	var b strings.Builder
	for _, r := range folded {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	result := b.String()
	if len([]rune(result)) > 60 {
		result = string([]rune(result)[:60])
	}
	return result
}

// FoldDiacritics strips combining marks after NFD decomposition
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// TitleFromName turns a theme name like "corps_humain" into "Corps Humain"
func TitleFromName(name string) string {
	spaced := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
	return cases.Title(language.Und).String(spaced)
}

// ContentHash returns the hex SHA-256 of data
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
