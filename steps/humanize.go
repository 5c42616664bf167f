package steps

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns an identifier into a title-cased phrase:
// "orderProcessor" becomes "Order Processor", "HTTPClient" becomes
// "Http Client" and "second_buyer" becomes "Second Buyer".
func Humanize(identifier string) string {
	words := splitWords(identifier)
	if len(words) == 0 {
		return ""
	}
	// cases.Caser keeps state; one per call.
	return cases.Title(language.English).String(strings.ToLower(strings.Join(words, " ")))
}

func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// end of an acronym: "HTTPClient" splits before "Client"
				flush()
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
