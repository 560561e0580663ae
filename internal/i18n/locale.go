package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	supported = []language.Tag{language.English, language.Spanish}
	matcher   = language.NewMatcher(supported)
)

// Supported reports whether a locale code has UI content.
func Supported(code string) bool {
	switch strings.ToLower(code) {
	case "en", "es":
		return true
	}
	return false
}

// Negotiate picks the request locale: an explicit supported code wins,
// otherwise the Accept-Language header is matched against en/es.
func Negotiate(explicit, acceptLanguage string) string {
	if Supported(explicit) {
		return strings.ToLower(explicit)
	}
	if acceptLanguage == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	base, _ := supported[idx].Base()
	return base.String()
}
