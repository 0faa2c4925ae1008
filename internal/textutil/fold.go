package textutil

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Fold transliterates text to ASCII, lowercases it, and collapses whitespace.
func Fold(text string) string {
	folded := strings.ToLower(unidecode.Unidecode(text))
	return strings.Join(strings.Fields(folded), " ")
}

// EqualFold reports whether a and b are equal after folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
