package utils

import (
	"strings"

	"golang.org/x/text/language"
)

const DefaultLocale = "en-US"

// PreferredLocale returns the highest-weighted tag of an Accept-Language
// header, or DefaultLocale when the header is empty or unparseable.
func PreferredLocale(header string) string {
	if strings.TrimSpace(header) == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 || tags[0] == language.Und {
		return DefaultLocale
	}
	return tags[0].String()
}
