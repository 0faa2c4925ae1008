package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HasMixedCase reports whether an uppercase letter is followed somewhere on
// the same line by a lowercase letter.
func HasMixedCase(text string) bool {
	seenUpper := false
	for _, r := range text {
		switch {
		case r == '\n':
			seenUpper = false
		case unicode.IsUpper(r):
			seenUpper = true
		case seenUpper && unicode.IsLower(r):
			return true
		}
	}
	return false
}

// TitleCase capitalizes each word unless the text already carries internal
// capitalization.
func TitleCase(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || HasMixedCase(text) {
		return text
	}
	return cases.Title(language.Und).String(text)
}
