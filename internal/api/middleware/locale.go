package middleware

import (
	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/localization"

	"github.com/gin-gonic/gin"
)

// Localize negotiates the response language from Accept-Language.
func Localize(loc *localization.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.SetLocale(c, loc, localization.FromAcceptLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}
