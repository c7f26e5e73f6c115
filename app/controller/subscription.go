package controller

import (
	"errors"
	"net/http"

	"github.com/vibast-solutions/ms-go-newsletter/app/dto"
	"github.com/vibast-solutions/ms-go-newsletter/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type SubscriptionController struct {
	subscriptions *service.SubscriptionService
}

func NewSubscriptionController(subscriptions *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptions: subscriptions}
}

func (c *SubscriptionController) Subscribe(ctx echo.Context) error {
	name := ctx.FormValue("name")
	email := ctx.FormValue("email")

	logrus.WithField("email", email).Info("Subscription request received")
	err := c.subscriptions.Subscribe(ctx.Request().Context(), name, email)
	if err != nil {
		if errors.Is(err, service.ErrSubscriberInvalid) {
			logrus.WithField("email", email).Debug("Subscription rejected: invalid form data")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		logrus.WithError(err).WithField("email", email).Error("Subscription failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *SubscriptionController) Confirm(ctx echo.Context) error {
	token := ctx.QueryParam("subscription_token")
	if token == "" {
		logrus.Debug("Confirmation rejected: missing subscription token")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "subscription_token is required"})
	}

	err := c.subscriptions.Confirm(ctx.Request().Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			logrus.Debug("Confirmation rejected: unknown subscription token")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown subscription token"})
		}
		logrus.WithError(err).Error("Confirmation failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.NoContent(http.StatusOK)
}
