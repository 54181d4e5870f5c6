// Package response writes the JSON envelope shared by every endpoint:
// {"message", "data"} on success and {"message", "code"} on failure.
package response

import (
	"net/http"

	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/localization"

	"github.com/gin-gonic/gin"
)

const (
	localizerKey = "localizer"
	languageKey  = "lang"
)

// Response є спільним конвертом для всіх JSON-відповідей API.
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SetLocale stores the localizer and the negotiated language on the request.
func SetLocale(c *gin.Context, loc *localization.Localizer, lang string) {
	c.Set(localizerKey, loc)
	c.Set(languageKey, lang)
}

// Language returns the negotiated language, "en" when none was set.
func Language(c *gin.Context) string {
	if lang := c.GetString(languageKey); lang != "" {
		return lang
	}
	return localization.DefaultLanguage
}

// T translates key for the current request. Without a localizer the key is returned.
func T(c *gin.Context, key string) string {
	v, ok := c.Get(localizerKey)
	if !ok {
		return key
	}
	loc, ok := v.(*localization.Localizer)
	if !ok || loc == nil {
		return key
	}
	return loc.GetString(Language(c), key)
}

// OK 200, messageKey is localized.
func OK(c *gin.Context, messageKey string, data interface{}) {
	c.JSON(http.StatusOK, Response{Message: T(c, messageKey), Data: data})
}

// Created 201
func Created(c *gin.Context, messageKey string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Message: T(c, messageKey), Data: data})
}

// Fail maps err to its status and stable code and aborts the chain.
// Unclassified errors are attached to the context for the request logger and
// answered with a generic message.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	code := apperr.CodeOf(err)
	if kind == apperr.KindInternal {
		_ = c.Error(err)
		code = apperr.CodeInternal
	}
	c.AbortWithStatusJSON(kind.HTTPStatus(), Response{Message: T(c, code), Code: code})
}
