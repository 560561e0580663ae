package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
	ucSubscription "github.com/tahoak/park-collective/internal/usecase/subscription"
)

type subscriber interface {
	Execute(ctx context.Context, in ucSubscription.SubscribeInput) (*models.Subscriber, error)
}

type tokenVerifier interface {
	Execute(ctx context.Context, token string) error
}

type SubscriptionHandler struct {
	subscribe subscriber
	verify    tokenVerifier
	logger    *zap.Logger
}

func NewSubscriptionHandler(subscribe subscriber, verify tokenVerifier, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscribe: subscribe, verify: verify, logger: logger}
}

type SubscribeRequest struct {
	Email  string `json:"email" binding:"required"`
	Locale string `json:"locale"`
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Locale == "" {
		req.Locale = middleware.LocaleFrom(c)
	}

	sub, err := h.subscribe.Execute(c.Request.Context(), ucSubscription.SubscribeInput{
		Email:  req.Email,
		Locale: req.Locale,
	})
	if err != nil {
		if !httperr.IsBusinessError(err) {
			h.logger.Error("subscribe failed", zap.Error(err))
		}
		httperr.FromError(c, err, "failed_to_subscribe")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"email": sub.Email, "verified": sub.Verified})
}

func (h *SubscriptionHandler) Verify(c *gin.Context) {
	if err := h.verify.Execute(c.Request.Context(), c.Query("token")); err != nil {
		if !httperr.IsBusinessError(err) {
			h.logger.Error("subscription verify failed", zap.Error(err))
		}
		httperr.FromError(c, err, "failed_to_verify")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}
