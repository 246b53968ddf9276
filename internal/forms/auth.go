package forms

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
)

type LoginForm struct {
	formState
	Username string `form:"username" validate:"datarequired"`
	Password string `form:"password" validate:"datarequired"`
}

func NewLoginForm(c echo.Context) *LoginForm {
	f := &LoginForm{}
	bindBody(c, f)
	return f
}

func (f *LoginForm) ValidateOnSubmit(c echo.Context, v echo.Validator) bool {
	return f.validateOnSubmit(c, v, f)
}

// AccountLookup answers uniqueness questions for registration.
type AccountLookup interface {
	UsernameLookup
	EmailExists(ctx context.Context, email string) (bool, error)
}

type RegisterForm struct {
	formState
	Username  string `form:"username" validate:"datarequired,max=64"`
	Email     string `form:"email" validate:"datarequired,email"`
	Password  string `form:"password" validate:"datarequired"`
	Password2 string `form:"password2" validate:"datarequired,eqfield=Password"`
}

func NewRegisterForm(c echo.Context) *RegisterForm {
	f := &RegisterForm{}
	bindBody(c, f)
	return f
}

// CheckAvailability rejects a username or email that is already registered.
func (f *RegisterForm) CheckAvailability(ctx context.Context, lookup AccountLookup) error {
	var errs []error

	taken, err := lookup.UsernameExists(ctx, f.Username)
	if err != nil {
		return err
	}
	if taken {
		errs = append(errs, &ValidationError{Field: "username", Message: "Please use a different username."})
	}

	taken, err = lookup.EmailExists(ctx, f.Email)
	if err != nil {
		return err
	}
	if taken {
		errs = append(errs, &ValidationError{Field: "email", Message: "Please use a different email address."})
	}
	return errors.Join(errs...)
}

func (f *RegisterForm) ValidateOnSubmit(c echo.Context, v echo.Validator, lookup AccountLookup) (bool, error) {
	if !f.validateOnSubmit(c, v, f) {
		return false, nil
	}
	if err := f.Apply(f.CheckAvailability(c.Request().Context(), lookup)); err != nil {
		return false, err
	}
	return !f.HasErrors(), nil
}
