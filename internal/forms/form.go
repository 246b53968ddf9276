// Package forms binds request values into typed forms and validates them.
//
// Validation runs in two phases. Field rules (required, length, format) are
// pure and run through the echo.Validator. Rules that need the database, such
// as username uniqueness, run afterwards against a small lookup interface and
// report a *ValidationError, which Apply folds into the same field-keyed
// errors the template renders.
package forms

import (
	"errors"
	"net/http"

	"github.com/anonto42/cookbook/backend/validators"
	"github.com/labstack/echo/v4"
)

// CSRFErrorKey is the echo.Context key under which the CSRF middleware
// records a failed token check.
const CSRFErrorKey = "csrf_error"

// CSRFField is the hidden input carrying the anti-forgery token.
const CSRFField = "csrf_token"

// Errors maps a field name to its messages. The empty key holds form level
// errors.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// ValidationError is returned by business rules that reject a field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type formState struct {
	errors Errors
}

// FieldErrors returns the messages for one field.
func (s *formState) FieldErrors(field string) []string {
	return s.errors[field]
}

// Errors returns all messages keyed by field. It is nil until validated.
func (s *formState) Errors() Errors {
	return s.errors
}

// AddError records a message against field. The empty field is form level.
func (s *formState) AddError(field, msg string) {
	if s.errors == nil {
		s.errors = Errors{}
	}
	s.errors.Add(field, msg)
}

func (s *formState) HasErrors() bool {
	return len(s.errors) > 0
}

// Apply folds business rule failures into the field errors. Errors that are
// not *ValidationError (database failures) are returned to the caller.
func (s *formState) Apply(err error) error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var fatal []error
		for _, e := range joined.Unwrap() {
			if rest := s.Apply(e); rest != nil {
				fatal = append(fatal, rest)
			}
		}
		return errors.Join(fatal...)
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		if s.errors == nil {
			s.errors = Errors{}
		}
		s.errors.Add(verr.Field, verr.Message)
		return nil
	}
	return err
}

func (s *formState) validateFields(v echo.Validator, form any) {
	if s.errors == nil {
		s.errors = Errors{}
	}
	err := v.Validate(form)
	if err == nil {
		return
	}
	fields, ok := validators.FieldErrors(err)
	if !ok {
		s.errors.Add("", err.Error())
		return
	}
	for field, msgs := range fields {
		s.errors[field] = append(s.errors[field], msgs...)
	}
}

// validateOnSubmit is true only for a POST with a valid CSRF token whose
// fields pass validation.
func (s *formState) validateOnSubmit(c echo.Context, v echo.Validator, form any) bool {
	if c.Request().Method != http.MethodPost {
		return false
	}
	s.errors = Errors{}
	if err, _ := c.Get(CSRFErrorKey).(error); err != nil {
		s.errors.Add(CSRFField, "The CSRF token is missing or invalid.")
	}
	s.validateFields(v, form)
	return !s.HasErrors()
}

// bindBody binds a POST body. A body that cannot be parsed leaves the fields
// empty so validation reports them.
func bindBody(c echo.Context, form any) {
	if c.Request().Method != http.MethodPost {
		return
	}
	_ = (&echo.DefaultBinder{}).BindBody(c, form)
}
