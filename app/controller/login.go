package controller

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/vibast-solutions/ms-go-newsletter/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const sessionCookieName = "session"

const loginPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>Login</title>
</head>
<body>
    %s<form action="/login" method="post">
        <label>Username
            <input type="text" placeholder="Enter Username" name="username">
        </label>
        <label>Password
            <input type="password" placeholder="Enter Password" name="password">
        </label>
        <button type="submit">Login</button>
    </form>
</body>
</html>`

type LoginController struct {
	auth       *service.AuthService
	hmacSecret string
	sessionTTL time.Duration
}

func NewLoginController(auth *service.AuthService, hmacSecret string, sessionTTL time.Duration) *LoginController {
	return &LoginController{auth: auth, hmacSecret: hmacSecret, sessionTTL: sessionTTL}
}

// LoginForm renders the login page. An error message arriving in the query
// string is shown only when its tag verifies; anything else renders the bare
// form, so a crafted redirect cannot inject text into the page.
func (c *LoginController) LoginForm(ctx echo.Context) error {
	errorBanner := ""
	if message := ctx.QueryParam("error"); message != "" {
		tag := ctx.QueryParam("tag")
		if service.VerifyErrorRedirect(message, tag, c.hmacSecret) {
			errorBanner = fmt.Sprintf("<p><i>%s</i></p>\n    ", html.EscapeString(message))
		} else {
			logrus.Warn("Discarding login error message with missing or invalid tag")
		}
	}
	return ctx.HTML(http.StatusOK, fmt.Sprintf(loginPageHTML, errorBanner))
}

func (c *LoginController) Login(ctx echo.Context) error {
	username := ctx.FormValue("username")
	password := ctx.FormValue("password")

	userID, err := c.auth.ValidateCredentials(ctx.Request().Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("username", username).Warn("Login failed: invalid credentials")
			query := service.SignErrorRedirect("Authentication failed", c.hmacSecret)
			return ctx.Redirect(http.StatusSeeOther, "/login?"+query)
		}
		logrus.WithError(err).WithField("username", username).Error("Login credential check failed")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	token, err := c.auth.IssueSession(userID, username)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Session issuance failed")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	logrus.WithField("user_id", userID).Info("Login successful")
	return ctx.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// Dashboard is the authenticated landing page; the session middleware has
// already stashed the operator's identity in the request context.
func (c *LoginController) Dashboard(ctx echo.Context) error {
	username, _ := ctx.Get("username").(string)
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>Admin dashboard</title>
</head>
<body>
    <p>Welcome %s!</p>
</body>
</html>`, html.EscapeString(username))
	return ctx.HTML(http.StatusOK, page)
}
