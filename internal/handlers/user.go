package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/cookbook/backend/internal/forms"
	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler handles profile pages, the profile popup and the user list.
type UserHandler struct {
	scope        *Scoper
	users        repositories.UserRepository
	follows      repositories.FollowRepository
	recipes      repositories.RecipeRepository
	popups       repositories.PopupCache
	postsPerPage int
	log          *zap.Logger
}

func NewUserHandler(
	scope *Scoper,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	recipeRepo repositories.RecipeRepository,
	popups repositories.PopupCache,
	postsPerPage int,
	log *zap.Logger,
) *UserHandler {
	return &UserHandler{
		scope:        scope,
		users:        userRepo,
		follows:      followRepo,
		recipes:      recipeRepo,
		popups:       popups,
		postsPerPage: postsPerPage,
		log:          log,
	}
}

// RegisterUserRoutes registers profile and user list routes. requireLogin
// guards the pages that need a signed in user.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireLogin echo.MiddlewareFunc) {
	g.GET("/user/:username/popup", h.scope.Wrap(h.UserPopup))
	g.GET("/user/:username", h.scope.Wrap(h.User), requireLogin)
	g.GET("/users", h.GetAllUsers, requireLogin)
	g.POST("/users", h.AddUser)

	editProfile := h.scope.Wrap(h.EditProfile)
	g.GET("/edit_profile", editProfile, requireLogin)
	g.POST("/edit_profile", editProfile, requireLogin)
}

// User shows a profile with the user's recipes, newest first.
func (h *UserHandler) User(c echo.Context, s *Scope) error {
	ctx := c.Request().Context()
	user, err := h.users.GetUserByName(ctx, usernameParam(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	recipes, p, err := h.recipes.ListRecipesByUser(ctx, user.ID, queryPage(c), h.postsPerPage)
	if err != nil {
		return fmt.Errorf("list user recipes: %w", err)
	}
	card, err := h.buildCard(ctx, user)
	if err != nil {
		return err
	}
	following, err := h.follows.IsFollowing(ctx, s.CurrentUser.ID, user.ID)
	if err != nil {
		return fmt.Errorf("check follow: %w", err)
	}

	data := s.view(c, user.Name)
	data["User"] = user
	data["Card"] = card
	data["IsFollowing"] = following
	data["Form"] = &forms.EmptyForm{}
	data["Recipes"] = recipes
	setPageLinks(data, c, p)
	return c.Render(http.StatusOK, "user.html", data)
}

// UserPopup renders the hover card for a user. Cards are served from the
// popup cache when present.
func (h *UserHandler) UserPopup(c echo.Context, s *Scope) error {
	ctx := c.Request().Context()
	name := usernameParam(c)

	card, ok := h.popups.Get(name)
	if !ok {
		user, err := h.users.GetUserByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "User not found")
			}
			return fmt.Errorf("get user: %w", err)
		}
		if card, err = h.buildCard(ctx, user); err != nil {
			return err
		}
		if err := h.popups.Set(card); err != nil {
			h.log.Warn("cache user popup", zap.String("user", name), zap.Error(err))
		}
	}

	following := false
	if s.CurrentUser != nil && s.CurrentUser.ID != card.ID {
		var err error
		if following, err = h.follows.IsFollowing(ctx, s.CurrentUser.ID, card.ID); err != nil {
			return fmt.Errorf("check follow: %w", err)
		}
	}

	data := s.view(c, "")
	data["Card"] = card
	data["IsFollowing"] = following
	data["Form"] = &forms.EmptyForm{}
	return c.Render(http.StatusOK, "user_popup.html", data)
}

func (h *UserHandler) buildCard(ctx context.Context, user *models.User) (*models.UserCard, error) {
	followers, err := h.follows.GetFollowersCount(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	following, err := h.follows.GetFollowingCount(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	return &models.UserCard{
		ID:        user.ID,
		Name:      user.Name,
		AboutMe:   user.AboutMe,
		LastSeen:  user.LastSeen,
		Followers: followers,
		Following: following,
	}, nil
}

// GetAllUsers returns every user's id and name as JSON, ordered by id.
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	users, err := h.users.ListUserSummaries(c.Request().Context())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"data":    []models.UserSummary{},
			"success": true,
			"message": "There are currently no users.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": users, "success": true})
}

// AddUser is reserved for a JSON sign-up endpoint and accepts nothing yet.
func (h *UserHandler) AddUser(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// EditProfile lets the signed in user change their name and about text.
func (h *UserHandler) EditProfile(c echo.Context, s *Scope) error {
	ctx := c.Request().Context()
	user := s.CurrentUser
	form := forms.NewEditProfileForm(c, user.Name)

	ok, err := form.ValidateOnSubmit(c, c.Echo().Validator, h.users)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if ok {
		oldName := user.Name
		user.Name = form.Username
		user.AboutMe = form.AboutMe
		if err := h.users.UpdateProfile(ctx, user); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if err := h.popups.Invalidate(oldName, user.Name); err != nil {
			h.log.Warn("invalidate user popup", zap.String("user", user.Name), zap.Error(err))
		}
		return redirectWithFlash(c, editProfilePath, "Your changes have been saved.")
	}

	if c.Request().Method == http.MethodGet {
		form.Username = user.Name
		form.AboutMe = user.AboutMe
	}

	data := s.view(c, "Edit Profile")
	data["Form"] = form
	return c.Render(http.StatusOK, "edit_profile.html", data)
}
