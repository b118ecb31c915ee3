// Package i18n translates the user-facing messages of the nutriplan API.
package i18n

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// DefaultLocale is used when the caller asks for nothing we support.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

// supported lists the catalog locales, default first. The matcher falls
// back to the first entry.
var supported = []language.Tag{language.English, language.Hindi}

var matcher = language.NewMatcher(supported)

// Translator looks up messages by key and locale.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator over the built-in catalog.
func NewTranslator() *Translator {
	return &Translator{messages: catalog()}
}

var defaultTranslator = sync.OnceValue(NewTranslator)

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	return defaultTranslator()
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// MatchLocale picks the supported locale that best satisfies an
// Accept-Language value such as "hi-IN,en;q=0.8".
func MatchLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	base, _ := supported[index].Base()
	return base.String()
}

// GetLocale returns the caller's locale from the Accept-Language header.
func GetLocale(c *gin.Context) string {
	return MatchLocale(c.GetHeader(AcceptLanguageHeader))
}
