package controller

import (
	"errors"
	"lingo_backend/internal/service"
	"lingo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	SubscriptionService *service.SubscriptionService
	WebhookSecret       string
}

func NewSubscriptionController(subscriptionService *service.SubscriptionService, webhookSecret string) *SubscriptionController {
	return &SubscriptionController{
		SubscriptionService: subscriptionService,
		WebhookSecret:       webhookSecret,
	}
}

// GetSubscription godoc
// @Summary Subscription status
// @Description Returns the caller's subscription mirror and whether it currently grants benefits
// @Tags subscription
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object} "subscription state"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/subscription [get]
func (c *SubscriptionController) GetSubscription(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, active, err := c.SubscriptionService.GetSubscription(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"subscription": sub,
		"isActive":     active,
	})
}

// Webhook godoc
// @Summary Payment provider webhook
// @Description Mirrors subscription lifecycle events from the payment provider into local state
// @Tags subscription
// @Accept  json
// @Produce  json
// @Param   X-Webhook-Secret header string true "shared webhook secret"
// @Param   body body service.SubscriptionEvent true "lifecycle event"
// @Success 200 {object} util.Response{data=object} "processed"
// @Failure 400 {object} util.Response "malformed event"
// @Failure 401 {object} util.Response "bad secret"
// @Router /api/webhooks/subscription [post]
func (c *SubscriptionController) Webhook(ctx *gin.Context) {
	if ctx.GetHeader("X-Webhook-Secret") != c.WebhookSecret {
		util.Unauthorized(ctx)
		return
	}

	var event service.SubscriptionEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SubscriptionService.HandleEvent(&event); err != nil {
		if errors.Is(err, util.ErrMissingProviderIDs) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"processed": true})
}
