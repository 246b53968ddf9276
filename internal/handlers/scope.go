package handlers

import (
	"fmt"
	"time"

	"github.com/anonto42/cookbook/backend/internal/forms"
	"github.com/anonto42/cookbook/backend/internal/middleware"
	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// Scope is the per-request state every page needs: who is asking, the
// search box in the navigation bar and the anti-forgery token.
type Scope struct {
	CurrentUser *models.User
	SearchForm  *forms.SearchForm
	CSRFToken   string
}

// ScopedHandler is a page handler that receives its request scope explicitly.
type ScopedHandler func(c echo.Context, s *Scope) error

// Scoper builds a Scope for each request and records the user's activity.
type Scoper struct {
	users repositories.UserRepository
	now   func() time.Time
}

func NewScoper(users repositories.UserRepository) *Scoper {
	return &Scoper{users: users, now: time.Now}
}

// Wrap adapts h to echo. For an authenticated user last_seen is stamped and
// committed before h runs.
func (s *Scoper) Wrap(h ScopedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		scope := &Scope{
			CurrentUser: middleware.CurrentUser(c),
			SearchForm:  forms.NewSearchForm(c),
			CSRFToken:   middleware.CSRFToken(c),
		}
		if user := scope.CurrentUser; user != nil {
			now := s.now().UTC()
			if err := s.users.TouchLastSeen(c.Request().Context(), user.ID, now); err != nil {
				return fmt.Errorf("update last seen: %w", err)
			}
			user.LastSeen = now
		}
		return h(c, scope)
	}
}

// view starts the template data shared by every page.
func (s *Scope) view(c echo.Context, title string) echo.Map {
	return echo.Map{
		"Title":       title,
		"CurrentUser": s.CurrentUser,
		"SearchForm":  s.SearchForm,
		"CSRFToken":   s.CSRFToken,
		"Flashes":     middleware.PopFlashes(c),
	}
}
