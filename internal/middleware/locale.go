package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tahoak/park-collective/internal/i18n"
)

const ContextLocale = "locale"

// Locale picks the response locale from ?lang= or Accept-Language.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextLocale, i18n.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func LocaleFrom(c *gin.Context) string {
	if v, ok := c.Get(ContextLocale); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return i18n.DefaultLocale
}
