package handlers

import (
	"errors"
	"fmt"

	"github.com/anonto42/cookbook/backend/internal/forms"
	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	scope   *Scoper
	users   repositories.UserRepository
	follows repositories.FollowRepository
	popups  repositories.PopupCache
	log     *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(
	scope *Scoper,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	popups repositories.PopupCache,
	log *zap.Logger,
) *FollowHandler {
	return &FollowHandler{
		scope:   scope,
		users:   userRepo,
		follows: followRepo,
		popups:  popups,
		log:     log,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireLogin echo.MiddlewareFunc) {
	g.POST("/follow/:username", h.scope.Wrap(h.Follow), requireLogin)
	g.POST("/unfollow/:username", h.scope.Wrap(h.Unfollow), requireLogin)
}

// Follow makes the current user follow :username.
func (h *FollowHandler) Follow(c echo.Context, s *Scope) error {
	target, done, err := h.resolveTarget(c, s, "You cannot follow yourself.")
	if done || err != nil {
		return err
	}

	if _, err := h.follows.Follow(c.Request().Context(), s.CurrentUser.ID, target.ID); err != nil {
		return fmt.Errorf("follow %s: %w", target.Name, err)
	}
	h.invalidate(s.CurrentUser, target)
	return redirectWithFlash(c, userPath(target.Name), fmt.Sprintf("You are now following %s", target.Name))
}

// Unfollow removes the current user's follow of :username.
func (h *FollowHandler) Unfollow(c echo.Context, s *Scope) error {
	target, done, err := h.resolveTarget(c, s, "You cannot unfollow yourself.")
	if done || err != nil {
		return err
	}

	removed, err := h.follows.Unfollow(c.Request().Context(), s.CurrentUser.ID, target.ID)
	if err != nil {
		return fmt.Errorf("unfollow %s: %w", target.Name, err)
	}
	if !removed {
		return redirectWithFlash(c, userPath(target.Name), fmt.Sprintf("You are not following %s.", target.Name))
	}
	h.invalidate(s.CurrentUser, target)
	return redirectWithFlash(c, userPath(target.Name), fmt.Sprintf("You have unfollowed %s.", target.Name))
}

// resolveTarget validates the submit and loads the target user. When done is
// true the response has already been written.
func (h *FollowHandler) resolveTarget(c echo.Context, s *Scope, selfMsg string) (*models.User, bool, error) {
	form := &forms.EmptyForm{}
	if !form.ValidateOnSubmit(c, c.Echo().Validator) {
		return nil, true, redirectTo(c, homePath)
	}

	name := usernameParam(c)
	target, err := h.users.GetUserByName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, true, redirectWithFlash(c, homePath, fmt.Sprintf("User %s not found.", name))
		}
		return nil, true, fmt.Errorf("get user: %w", err)
	}
	if target.ID == s.CurrentUser.ID {
		return nil, true, redirectWithFlash(c, userPath(target.Name), selfMsg)
	}
	return target, false, nil
}

func (h *FollowHandler) invalidate(users ...*models.User) {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	if err := h.popups.Invalidate(names...); err != nil {
		h.log.Warn("invalidate user popup", zap.Strings("users", names), zap.Error(err))
	}
}
