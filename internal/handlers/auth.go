package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/cookbook/backend/internal/forms"
	"github.com/anonto42/cookbook/backend/internal/middleware"
	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	scope    *Scoper
	users    repositories.UserRepository
	sessions *middleware.Sessions
	verifier middleware.IDTokenVerifier
}

// NewAuthHandler creates a new AuthHandler. verifier may be nil, in which
// case Firebase login is not offered.
func NewAuthHandler(scope *Scoper, userRepo repositories.UserRepository, sessions *middleware.Sessions, verifier middleware.IDTokenVerifier) *AuthHandler {
	return &AuthHandler{
		scope:    scope,
		users:    userRepo,
		sessions: sessions,
		verifier: verifier,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	login := h.scope.Wrap(h.Login)
	g.GET("/login", login)
	g.POST("/login", login)

	register := h.scope.Wrap(h.Register)
	g.GET("/register", register)
	g.POST("/register", register)

	g.POST("/logout", h.Logout)

	if h.verifier != nil {
		g.POST("/firebase-login", h.FirebaseLogin, middleware.FirebaseAuthMiddleware(h.verifier))
	}
}

// Login signs a user in with username and password.
func (h *AuthHandler) Login(c echo.Context, s *Scope) error {
	if s.CurrentUser != nil {
		return redirectTo(c, homePath)
	}

	form := forms.NewLoginForm(c)
	if form.ValidateOnSubmit(c, c.Echo().Validator) {
		user, err := h.users.GetUserByName(c.Request().Context(), form.Username)
		switch {
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("get user: %w", err)
		case err == nil && user.CheckPassword(form.Password):
			if err := h.sessions.Issue(c, user); err != nil {
				return err
			}
			return redirectTo(c, safeNext(c.FormValue("next")))
		default:
			form.AddError("", "Invalid username or password")
		}
	}

	data := s.view(c, "Sign In")
	data["Form"] = form
	data["Next"] = c.FormValue("next")
	return c.Render(http.StatusOK, "login.html", data)
}

// Register creates a local account.
func (h *AuthHandler) Register(c echo.Context, s *Scope) error {
	if s.CurrentUser != nil {
		return redirectTo(c, homePath)
	}

	form := forms.NewRegisterForm(c)
	ok, err := form.ValidateOnSubmit(c, c.Echo().Validator, h.users)
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if ok {
		email := form.Email
		user := &models.User{Name: form.Username, Email: &email}
		if err := user.SetPassword(form.Password); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := h.users.CreateUser(c.Request().Context(), user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return redirectWithFlash(c, loginPath, "Congratulations, you are now a registered user!")
	}

	data := s.view(c, "Register")
	data["Form"] = form
	return c.Render(http.StatusOK, "register.html", data)
}

// Logout ends the session. Without a valid token the session is kept.
func (h *AuthHandler) Logout(c echo.Context) error {
	form := &forms.EmptyForm{}
	if form.ValidateOnSubmit(c, c.Echo().Validator) {
		h.sessions.Clear(c)
	}
	return redirectTo(c, homePath)
}

// FirebaseLogin exchanges a verified Firebase ID token for a session. The
// account is found by Firebase UID, then linked by email, then created.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	token := middleware.FirebaseToken(c)
	if token == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, err := h.firebaseUser(c.Request().Context(), token)
	if err != nil {
		return err
	}
	if err := h.sessions.Issue(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"name": user.Name},
	})
}

func (h *AuthHandler) firebaseUser(ctx context.Context, token *auth.Token) (*models.User, error) {
	user, err := h.users.GetUserByFirebaseUID(ctx, token.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get user by firebase uid: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	if email != "" {
		user, err = h.users.GetUserByEmail(ctx, email)
		if err == nil {
			if err := h.users.LinkFirebaseUID(ctx, user.ID, token.UID); err != nil {
				return nil, fmt.Errorf("link firebase uid: %w", err)
			}
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get user by email: %w", err)
		}
	}

	displayName, _ := token.Claims["name"].(string)
	name, err := h.availableName(ctx, displayName, email)
	if err != nil {
		return nil, err
	}
	uid := token.UID
	user = &models.User{Name: name, FirebaseUID: &uid}
	if email != "" {
		user.Email = &email
	}
	if err := h.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// availableName derives a username from the Firebase profile, adding a short
// random suffix when the preferred name is taken.
func (h *AuthHandler) availableName(ctx context.Context, displayName, email string) (string, error) {
	base := strings.Join(strings.Fields(displayName), "")
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}
	if base == "" {
		base = "cook"
	}
	if r := []rune(base); len(r) > 48 {
		base = string(r[:48])
	}

	name := base
	for i := 0; i < 5; i++ {
		taken, err := h.users.UsernameExists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !taken {
			return name, nil
		}
		name = base + "-" + uuid.NewString()[:8]
	}
	return "", errors.New("no available username")
}
