package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
	"github.com/polkart/storefront/internal/server/http/dto"
)

// PaymentHandler serves intent issuance, gateway webhooks, and cancellation.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler creates PaymentHandler instance.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Create handles POST /api/payment/create.
func (h *PaymentHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Provider == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	intent, err := h.facade.CreatePayment(c.Request.Context(), userID, model.PaymentProvider(req.Provider), req.Currency)
	if err != nil {
		var provErr *domainErrors.ProviderError
		switch {
		case errors.Is(err, domainErrors.ErrUnknownProvider):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNoActiveCart), errors.Is(err, domainErrors.ErrEmptyCart):
			c.Status(http.StatusUnprocessableEntity)
		case errors.As(err, &provErr):
			c.Status(http.StatusBadGateway)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.IntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	})
}

// Cancel handles POST /api/payment/cancel.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.CancelOrderForUser(c.Request.Context(), userID, req.OrderID); err != nil {
		var provErr *domainErrors.ProviderError
		switch {
		case errors.Is(err, domainErrors.ErrNotFound), errors.Is(err, domainErrors.ErrPaymentMissing):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrNotCancelable):
			c.Status(http.StatusConflict)
		case errors.As(err, &provErr):
			c.Status(http.StatusBadGateway)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusOK)
}

// Webhook handles POST /api/payment/webhook.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var event dto.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil || event.Data.Object.ID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.HandleWebhookEvent(c.Request.Context(), event.Type, event.Data.Object.ID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUnknownEventType):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusOK)
}
