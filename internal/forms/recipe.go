package forms

import "github.com/labstack/echo/v4"

type RecipeForm struct {
	formState
	Name         string `form:"name" validate:"datarequired"`
	Instructions string `form:"instructions" validate:"datarequired"`
	Ingredients  string `form:"ingredients" validate:"datarequired"`
	// Tags are not bound: no route writes them yet.
}

func NewRecipeForm(c echo.Context) *RecipeForm {
	f := &RecipeForm{}
	bindBody(c, f)
	return f
}

func (f *RecipeForm) ValidateOnSubmit(c echo.Context, v echo.Validator) bool {
	return f.validateOnSubmit(c, v, f)
}

// EmptyForm only carries the CSRF token for POST-only actions.
type EmptyForm struct {
	formState
}

func (f *EmptyForm) ValidateOnSubmit(c echo.Context, v echo.Validator) bool {
	return f.validateOnSubmit(c, v, f)
}
