package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "session"
	// UserContextKey is where the authenticated *models.User is stored.
	UserContextKey = "user"

	sessionTTL = 72 * time.Hour
)

// UserLoader resolves the user named by a session.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Sessions issues and verifies HS256 session cookies.
type Sessions struct {
	secret []byte
	users  UserLoader
	now    func() time.Time
}

func NewSessions(secret string, users UserLoader) *Sessions {
	return &Sessions{secret: []byte(secret), users: users, now: time.Now}
}

// Token signs a session token for user.
func (s *Sessions) Token(user *models.User) (string, error) {
	now := s.now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Issue logs user in by setting the session cookie.
func (s *Sessions) Issue(c echo.Context, user *models.User) error {
	token, err := s.Token(user)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear logs the client out.
func (s *Sessions) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) parse(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// LoadUser resolves the session cookie into the current user. A missing,
// expired or forged cookie leaves the request anonymous.
func (s *Sessions) LoadUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := s.parse(cookie.Value)
			if err != nil {
				s.Clear(c)
				return next(c)
			}

			user, err := s.users.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				s.Clear(c)
				return next(c)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(UserContextKey).(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to loginPath, remembering the
// requested page in the next parameter.
func RequireLogin(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) != nil {
				return next(c)
			}
			AddFlash(c, "Please log in to access this page.")
			target := loginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, target)
		}
	}
}
