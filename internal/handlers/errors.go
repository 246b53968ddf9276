package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/cookbook/backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// jsonPaths answer errors with JSON instead of the HTML error page.
var jsonPaths = map[string]bool{
	"/users":               true,
	"/auth/firebase-login": true,
	"/health":              true,
}

// HTTPErrorHandler logs server errors and renders the error page, or a JSON
// body for the JSON endpoints.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "An unexpected error has occurred."
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}

		var werr error
		switch {
		case c.Request().Method == http.MethodHead:
			werr = c.NoContent(code)
		case jsonPaths[c.Request().URL.Path]:
			werr = c.JSON(code, echo.Map{"success": false, "message": msg})
		default:
			werr = c.Render(code, "error.html", echo.Map{
				"Title":       http.StatusText(code),
				"Code":        code,
				"Message":     msg,
				"CurrentUser": middleware.CurrentUser(c),
				"CSRFToken":   middleware.CSRFToken(c),
			})
		}
		if werr != nil {
			log.Error("write error response", zap.Error(werr))
			if !c.Response().Committed {
				_ = c.String(code, msg)
			}
		}
	}
}
