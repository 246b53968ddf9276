package forms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/anonto42/cookbook/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	names  map[string]bool
	emails map[string]bool
	calls  int
	err    error
}

func (f *fakeLookup) UsernameExists(_ context.Context, name string) (bool, error) {
	f.calls++
	return f.names[name], f.err
}

func (f *fakeLookup) EmailExists(_ context.Context, email string) (bool, error) {
	return f.emails[email], f.err
}

func postContext(values url.Values) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestSearchFormBindsQueryString(t *testing.T) {
	v := validators.NewValidator()

	req := httptest.NewRequest(http.MethodPost, "/search?q=soup", strings.NewReader("q=ignored"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	f := NewSearchForm(c)
	assert.Equal(t, "soup", f.Q)
	assert.True(t, f.Validate(v))
}

func TestSearchFormRequiresQuery(t *testing.T) {
	v := validators.NewValidator()
	for _, target := range []string{"/search", "/search?q=", "/search?q=%20%20"} {
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		f := NewSearchForm(c)
		assert.False(t, f.Validate(v), target)
		assert.Equal(t, []string{"This field is required."}, f.FieldErrors("q"), target)
	}
}

func TestRecipeFormValidation(t *testing.T) {
	v := validators.NewValidator()

	t.Run("all fields present", func(t *testing.T) {
		c := postContext(url.Values{"name": {"Soup"}, "instructions": {"Boil"}, "ingredients": {"Water"}})
		f := NewRecipeForm(c)
		assert.True(t, f.ValidateOnSubmit(c, v))
		assert.Empty(t, f.Errors())
	})

	t.Run("missing fields", func(t *testing.T) {
		c := postContext(url.Values{"name": {"Soup"}})
		f := NewRecipeForm(c)
		assert.False(t, f.ValidateOnSubmit(c, v))
		assert.Nil(t, f.FieldErrors("name"))
		assert.NotEmpty(t, f.FieldErrors("instructions"))
		assert.NotEmpty(t, f.FieldErrors("ingredients"))
	})

	t.Run("GET is never a submission", func(t *testing.T) {
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		f := NewRecipeForm(c)
		assert.False(t, f.ValidateOnSubmit(c, v))
		assert.False(t, f.HasErrors())
	})

	t.Run("failed CSRF check", func(t *testing.T) {
		c := postContext(url.Values{"name": {"Soup"}, "instructions": {"Boil"}, "ingredients": {"Water"}})
		c.Set(CSRFErrorKey, errors.New("invalid csrf token"))
		f := NewRecipeForm(c)
		assert.False(t, f.ValidateOnSubmit(c, v))
		assert.NotEmpty(t, f.FieldErrors(CSRFField))
	})
}

func TestEmptyForm(t *testing.T) {
	v := validators.NewValidator()

	c := postContext(url.Values{})
	assert.True(t, (&EmptyForm{}).ValidateOnSubmit(c, v))

	c = postContext(url.Values{})
	c.Set(CSRFErrorKey, errors.New("missing csrf token"))
	assert.False(t, (&EmptyForm{}).ValidateOnSubmit(c, v))
}

func TestAddErrorMarksFormInvalid(t *testing.T) {
	form := &LoginForm{}
	assert.False(t, form.HasErrors())

	form.AddError("", "Invalid username or password")
	assert.True(t, form.HasErrors())
	assert.Equal(t, []string{"Invalid username or password"}, form.FieldErrors(""))
	assert.Empty(t, form.FieldErrors("username"))
}

func TestEditProfileAboutMeLength(t *testing.T) {
	v := validators.NewValidator()
	lookup := &fakeLookup{}

	c := postContext(url.Values{"username": {"alice"}, "about_me": {strings.Repeat("a", 140)}})
	ok, err := NewEditProfileForm(c, "alice").ValidateOnSubmit(c, v, lookup)
	require.NoError(t, err)
	assert.True(t, ok)

	c = postContext(url.Values{"username": {"alice"}, "about_me": {strings.Repeat("a", 141)}})
	f := NewEditProfileForm(c, "alice")
	ok, err = f.ValidateOnSubmit(c, v, lookup)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Field cannot be longer than 140 characters."}, f.FieldErrors("about_me"))
}

func TestEditProfileUsernameRule(t *testing.T) {
	v := validators.NewValidator()

	t.Run("unchanged name skips the lookup", func(t *testing.T) {
		lookup := &fakeLookup{names: map[string]bool{"alice": true}}
		c := postContext(url.Values{"username": {"alice"}})
		ok, err := NewEditProfileForm(c, "alice").ValidateOnSubmit(c, v, lookup)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, lookup.calls)
	})

	t.Run("another user's name is taken", func(t *testing.T) {
		lookup := &fakeLookup{names: map[string]bool{"alice": true, "bob": true}}
		c := postContext(url.Values{"username": {"bob"}})
		f := NewEditProfileForm(c, "alice")
		ok, err := f.ValidateOnSubmit(c, v, lookup)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{usernameTakenMessage}, f.FieldErrors("username"))
	})

	t.Run("comparison is case sensitive", func(t *testing.T) {
		lookup := &fakeLookup{names: map[string]bool{"alice": true}}
		c := postContext(url.Values{"username": {"Alice"}})
		ok, err := NewEditProfileForm(c, "alice").ValidateOnSubmit(c, v, lookup)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, lookup.calls)
	})

	t.Run("lookup failure is fatal", func(t *testing.T) {
		lookup := &fakeLookup{err: errors.New("db down")}
		c := postContext(url.Values{"username": {"carol"}})
		ok, err := NewEditProfileForm(c, "alice").ValidateOnSubmit(c, v, lookup)
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestCheckUsernameIsPure(t *testing.T) {
	f := &EditProfileForm{Username: "bob", originalUsername: "alice"}
	err := f.CheckUsername(context.Background(), &fakeLookup{names: map[string]bool{"bob": true}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
	assert.False(t, f.HasErrors(), "the rule reports, Apply records")

	require.NoError(t, f.Apply(err))
	assert.True(t, f.HasErrors())
}

func TestRegisterForm(t *testing.T) {
	v := validators.NewValidator()
	lookup := &fakeLookup{names: map[string]bool{"alice": true}, emails: map[string]bool{"a@example.com": true}}

	c := postContext(url.Values{
		"username": {"alice"}, "email": {"a@example.com"},
		"password": {"pw"}, "password2": {"pw"},
	})
	f := NewRegisterForm(c)
	ok, err := f.ValidateOnSubmit(c, v, lookup)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEmpty(t, f.FieldErrors("username"))
	assert.NotEmpty(t, f.FieldErrors("email"))

	c = postContext(url.Values{
		"username": {"dave"}, "email": {"d@example.com"},
		"password": {"pw"}, "password2": {"other"},
	})
	f = NewRegisterForm(c)
	ok, err = f.ValidateOnSubmit(c, v, lookup)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Field must be equal to password."}, f.FieldErrors("password2"))
}
