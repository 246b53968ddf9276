package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// FirebaseTokenKey is where the verified ID token is stored.
const FirebaseTokenKey = "firebaseToken"

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type idTokenRequest struct {
	IDToken string `json:"idToken"`
}

// FirebaseAuthMiddleware verifies a Firebase ID token sent either as a Bearer
// Authorization header or as the idToken field of a JSON body.
func FirebaseAuthMiddleware(verifier IDTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if idToken == "" {
				var req idTokenRequest
				if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
				}
				idToken = req.IDToken
			}
			if idToken == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "idToken is required")
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(FirebaseTokenKey, token)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// FirebaseToken returns the token verified by FirebaseAuthMiddleware.
func FirebaseToken(c echo.Context) *auth.Token {
	token, _ := c.Get(FirebaseTokenKey).(*auth.Token)
	return token
}
