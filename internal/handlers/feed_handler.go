package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/anonto42/cookbook/backend/internal/forms"
	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FeedHandler serves the recipe feeds: home, explore and search.
type FeedHandler struct {
	scope        *Scoper
	recipes      repositories.RecipeRepository
	search       repositories.SearchIndex
	postsPerPage int
	log          *zap.Logger
}

func NewFeedHandler(
	scope *Scoper,
	recipeRepo repositories.RecipeRepository,
	searchIndex repositories.SearchIndex,
	postsPerPage int,
	log *zap.Logger,
) *FeedHandler {
	return &FeedHandler{
		scope:        scope,
		recipes:      recipeRepo,
		search:       searchIndex,
		postsPerPage: postsPerPage,
		log:          log,
	}
}

// RegisterFeedRoutes registers the feed pages.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	home := h.scope.Wrap(h.Home)
	g.GET("/", home)
	g.POST("/", home)
	g.GET("/index", home)
	g.POST("/index", home)
	g.GET("/explore", h.scope.Wrap(h.Explore))
	g.GET("/search", h.scope.Wrap(h.Search))
}

// Home shows the recipe form and, for a signed in user, the recipes of the
// people they follow together with their own.
func (h *FeedHandler) Home(c echo.Context, s *Scope) error {
	ctx := c.Request().Context()
	form := forms.NewRecipeForm(c)

	if c.Request().Method == http.MethodPost && s.CurrentUser == nil {
		return redirectToLogin(c, homePath)
	}

	if form.ValidateOnSubmit(c, c.Echo().Validator) {
		recipe := &models.Recipe{
			UserID:       s.CurrentUser.ID,
			Name:         form.Name,
			Instructions: form.Instructions,
			Ingredients:  form.Ingredients,
		}
		if err := h.recipes.CreateRecipe(ctx, recipe); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := h.search.Index(ctx, recipe); err != nil {
			h.log.Warn("index recipe", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		}
		return redirectWithFlash(c, homePath, "Your recipe has been created.")
	}

	data := s.view(c, "Home")
	data["Form"] = form
	if s.CurrentUser != nil {
		recipes, p, err := h.recipes.ListFollowedRecipes(ctx, s.CurrentUser.ID, queryPage(c), h.postsPerPage)
		if err != nil {
			return fmt.Errorf("list followed recipes: %w", err)
		}
		data["Recipes"] = recipes
		setPageLinks(data, c, p)
	}
	return c.Render(http.StatusOK, "index.html", data)
}

// Explore lists every recipe, newest first.
func (h *FeedHandler) Explore(c echo.Context, s *Scope) error {
	recipes, p, err := h.recipes.ListRecipes(c.Request().Context(), queryPage(c), h.postsPerPage)
	if err != nil {
		return fmt.Errorf("list recipes: %w", err)
	}

	data := s.view(c, "Explore")
	data["Recipes"] = recipes
	setPageLinks(data, c, p)
	return c.Render(http.StatusOK, "explore.html", data)
}

// Search runs the navigation bar query. A blank query goes to explore.
func (h *FeedHandler) Search(c echo.Context, s *Scope) error {
	if !s.SearchForm.Validate(c.Echo().Validator) {
		return redirectTo(c, explorePath)
	}

	ctx := c.Request().Context()
	page := queryPage(c)
	ids, total, err := h.search.Search(ctx, strings.TrimSpace(s.SearchForm.Q), page, h.postsPerPage)
	if err != nil {
		return fmt.Errorf("search recipes: %w", err)
	}
	recipes, err := h.recipes.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load search results: %w", err)
	}

	data := s.view(c, "Search")
	data["Recipes"] = recipes
	setPageLinks(data, c, models.NewPagination(page, h.postsPerPage, total))
	return c.Render(http.StatusOK, "search.html", data)
}
