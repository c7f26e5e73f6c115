package controller

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/vibast-solutions/ms-go-newsletter/app/dto"
	"github.com/vibast-solutions/ms-go-newsletter/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type NewsletterController struct {
	newsletters *service.NewsletterService
	auth        *service.AuthService
}

func NewNewsletterController(newsletters *service.NewsletterService, auth *service.AuthService) *NewsletterController {
	return &NewsletterController{newsletters: newsletters, auth: auth}
}

type basicCredentials struct {
	username string
	password string
}

func extractBasicCredentials(header string) (basicCredentials, error) {
	if header == "" {
		return basicCredentials{}, errors.New("missing authorization header")
	}
	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return basicCredentials{}, errors.New("authorization scheme is not Basic")
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return basicCredentials{}, errors.New("authorization header is not valid base64")
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return basicCredentials{}, errors.New("authorization header is missing a password")
	}
	return basicCredentials{username: username, password: password}, nil
}

func unauthorized(ctx echo.Context) error {
	ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="publish"`)
	return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication failed"})
}

func (c *NewsletterController) Publish(ctx echo.Context) error {
	creds, err := extractBasicCredentials(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		logrus.WithError(err).Debug("Publish rejected: bad authorization header")
		return unauthorized(ctx)
	}

	userID, err := c.auth.ValidateCredentials(ctx.Request().Context(), creds.username, creds.password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("username", creds.username).Warn("Publish rejected: invalid credentials")
			return unauthorized(ctx)
		}
		logrus.WithError(err).WithField("username", creds.username).Error("Publish credential check failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	var req dto.PublishNewsletterRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Publish rejected: malformed payload")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "title and body are required"})
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"title":   req.Title,
	}).Info("Publishing newsletter issue")
	if err := c.newsletters.Publish(ctx.Request().Context(), req.Title, req.Body); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Publish failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "newsletter published"})
}
