package forms

import "github.com/labstack/echo/v4"

// SearchForm is bound from the query string for every method and carries no
// CSRF token: searching is read-only.
type SearchForm struct {
	formState
	Q string `query:"q" validate:"datarequired"`
}

// NewSearchForm binds q from the request's query string.
func NewSearchForm(c echo.Context) *SearchForm {
	f := &SearchForm{}
	_ = (&echo.DefaultBinder{}).BindQueryParams(c, f)
	return f
}

func (f *SearchForm) Validate(v echo.Validator) bool {
	f.errors = Errors{}
	f.validateFields(v, f)
	return !f.HasErrors()
}
