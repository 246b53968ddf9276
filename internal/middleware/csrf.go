package middleware

import (
	"errors"
	"net/http"

	"github.com/anonto42/cookbook/backend/internal/forms"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFContextKey holds the token rendered into forms.
	CSRFContextKey = "csrf"
	csrfCookie     = "_csrf"
)

var errCSRFRejected = errors.New("csrf token rejected")

// CSRF checks the anti-forgery token on unsafe requests. A failed check does
// not abort the request: it is recorded under forms.CSRFErrorKey and the form
// reports it as a field error.
func CSRF() echo.MiddlewareFunc {
	check := echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:" + forms.CSRFField,
		ContextKey:     CSRFContextKey,
		CookieName:     csrfCookie,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(err error, c echo.Context) error {
			c.Set(forms.CSRFErrorKey, err)
			return errCSRFRejected
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		checked := check(next)
		return func(c echo.Context) error {
			err := checked(c)
			if !errors.Is(err, errCSRFRejected) {
				return err
			}
			keepCSRFToken(c)
			return next(c)
		}
	}
}

// keepCSRFToken exposes a token to re-rendered forms after a rejected check.
func keepCSRFToken(c echo.Context) {
	token := uuid.NewString()
	if cookie, err := c.Cookie(csrfCookie); err == nil && cookie.Value != "" {
		token = cookie.Value
	} else {
		c.SetCookie(&http.Cookie{
			Name:     csrfCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	c.Set(CSRFContextKey, token)
}

// CSRFToken returns the token for the current request.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}
