package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/server/http/dto"
)

// CartHandler serves cart viewing and mutation endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler creates CartHandler instance.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// List handles GET /api/cart.
func (h *CartHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)

	items, err := h.facade.CartItems(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNoActiveCart) {
			c.JSON(http.StatusOK, []dto.CartItemResponse{})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse(items))
}

// Add handles POST /api/cart/add/:id.
func (h *CartHandler) Add(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.AddCartItem(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

// Remove handles POST /api/cart/remove/:id.
func (h *CartHandler) Remove(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RemoveCartItem(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}
