package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type RecipeHandler struct {
	scope   *Scoper
	recipes repositories.RecipeRepository
}

func NewRecipeHandler(scope *Scoper, recipeRepo repositories.RecipeRepository) *RecipeHandler {
	return &RecipeHandler{scope: scope, recipes: recipeRepo}
}

func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group) {
	g.GET("/recipes/:recipe_id", h.scope.Wrap(h.GetRecipe))
}

// GetRecipe shows one recipe in full. Unknown and non-numeric ids are 404.
func (h *RecipeHandler) GetRecipe(c echo.Context, s *Scope) error {
	id, err := strconv.ParseUint(c.Param("recipe_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
	}

	recipe, err := h.recipes.GetRecipeByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return fmt.Errorf("get recipe: %w", err)
	}

	data := s.view(c, recipe.Name)
	data["Recipe"] = recipe
	return c.Render(http.StatusOK, "recipe_full.html", data)
}
