package forms

import (
	"context"

	"github.com/labstack/echo/v4"
)

const usernameTakenMessage = "Username taken. Please use a different username."

// UsernameLookup answers whether a user name is already stored.
type UsernameLookup interface {
	UsernameExists(ctx context.Context, name string) (bool, error)
}

type EditProfileForm struct {
	formState
	Username string `form:"username" validate:"datarequired"`
	AboutMe  string `form:"about_me" validate:"max=140"`

	originalUsername string
}

// NewEditProfileForm binds the submitted profile of the user currently named
// originalUsername.
func NewEditProfileForm(c echo.Context, originalUsername string) *EditProfileForm {
	f := &EditProfileForm{originalUsername: originalUsername}
	bindBody(c, f)
	return f
}

func (f *EditProfileForm) OriginalUsername() string {
	return f.originalUsername
}

// CheckUsername rejects a changed username that another user already holds.
// Keeping the original username never consults the lookup.
func (f *EditProfileForm) CheckUsername(ctx context.Context, lookup UsernameLookup) error {
	if f.Username == f.originalUsername {
		return nil
	}
	taken, err := lookup.UsernameExists(ctx, f.Username)
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{Field: "username", Message: usernameTakenMessage}
	}
	return nil
}

// ValidateOnSubmit runs the field rules and, when they pass, the username
// rule. The error is non-nil only when the lookup failed.
func (f *EditProfileForm) ValidateOnSubmit(c echo.Context, v echo.Validator, lookup UsernameLookup) (bool, error) {
	if !f.validateOnSubmit(c, v, f) {
		return false, nil
	}
	if err := f.Apply(f.CheckUsername(c.Request().Context(), lookup)); err != nil {
		return false, err
	}
	return !f.HasErrors(), nil
}
