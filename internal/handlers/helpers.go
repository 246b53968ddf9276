package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/anonto42/cookbook/backend/internal/middleware"
	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const (
	homePath        = "/index"
	explorePath     = "/explore"
	editProfilePath = "/edit_profile"
	loginPath       = "/auth/login"
)

// queryPage reads the page query parameter. Anything that is not a positive
// integer means the first page.
func queryPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return models.NormalizePage(page)
}

// pageURL is the current URL with page replaced, keeping other parameters.
func pageURL(c echo.Context, page int) string {
	q := c.Request().URL.Query()
	q.Set("page", strconv.Itoa(page))
	return c.Request().URL.Path + "?" + q.Encode()
}

// setPageLinks adds NextURL and PrevURL only when those pages exist.
func setPageLinks(data echo.Map, c echo.Context, p models.Pagination) {
	if p.HasNext() {
		data["NextURL"] = pageURL(c, p.NextNum())
	}
	if p.HasPrev() {
		data["PrevURL"] = pageURL(c, p.PrevNum())
	}
}

func userPath(name string) string {
	return "/user/" + url.PathEscape(name)
}

// usernameParam returns the :username path parameter decoded exactly once.
// echo routes on RawPath when the request has one, leaving the parameter
// escaped; otherwise it is already decoded.
func usernameParam(c echo.Context) string {
	name := c.Param("username")
	if c.Request().URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func redirectTo(c echo.Context, path string) error {
	return c.Redirect(http.StatusFound, path)
}

func redirectWithFlash(c echo.Context, path, msg string) error {
	middleware.AddFlash(c, msg)
	return redirectTo(c, path)
}

func redirectToLogin(c echo.Context, next string) error {
	middleware.AddFlash(c, "Please log in to access this page.")
	return redirectTo(c, loginPath+"?next="+url.QueryEscape(next))
}

// safeNext accepts only local absolute paths as a post-login target.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return homePath
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return homePath
	}
	return next
}
