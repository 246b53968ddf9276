package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	flashCookie     = "flash"
	flashPendingKey = "flash_pending"
)

// AddFlash queues a one-time message shown on the next rendered page.
func AddFlash(c echo.Context, msg string) {
	pending := pendingFlashes(c)
	pending = append(pending, msg)
	c.Set(flashPendingKey, pending)
	setFlashCookie(c, pending)
}

// PopFlashes returns queued messages and clears them.
func PopFlashes(c echo.Context) []string {
	msgs := pendingFlashes(c)
	c.Set(flashPendingKey, []string{})
	if len(msgs) > 0 {
		setFlashCookie(c, nil)
	}
	return msgs
}

func pendingFlashes(c echo.Context) []string {
	if pending, ok := c.Get(flashPendingKey).([]string); ok {
		return pending
	}
	cookie, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	return decodeFlashes(cookie.Value)
}

func setFlashCookie(c echo.Context, msgs []string) {
	cookie := &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if len(msgs) == 0 {
		cookie.MaxAge = -1
	} else {
		cookie.Value = encodeFlashes(msgs)
	}
	c.SetCookie(cookie)
}

func encodeFlashes(msgs []string) string {
	raw, _ := json.Marshal(msgs)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeFlashes(value string) []string {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
