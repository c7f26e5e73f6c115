package middleware

import (
	"net/http"

	"github.com/vibast-solutions/ms-go-newsletter/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type sessionValidator interface {
	ValidateSession(tokenString string) (*service.SessionClaims, error)
}

type SessionMiddleware struct {
	auth sessionValidator
}

func NewSessionMiddleware(auth sessionValidator) *SessionMiddleware {
	return &SessionMiddleware{auth: auth}
}

// RequireSession guards the admin pages. The consumer is a browser, so a
// missing or invalid session redirects to the login form instead of
// returning a JSON 401.
func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie("session")
		if err != nil {
			logrus.Debug("Missing session cookie")
			return c.Redirect(http.StatusSeeOther, "/login")
		}

		claims, err := m.auth.ValidateSession(cookie.Value)
		if err != nil {
			logrus.Debug("Invalid or expired session cookie")
			return c.Redirect(http.StatusSeeOther, "/login")
		}

		c.Set("user_id", claims.Subject)
		c.Set("username", claims.Username)

		return next(c)
	}
}
