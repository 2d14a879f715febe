package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Show handles GET /api/cart.
func (h *CartHandler) Show(c *gin.Context) {
	view, err := h.facade.Cart(c.Request.Context(), CurrentTenantID(c), currentOwner(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(view))
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	line, err := h.facade.AddToCart(c.Request.Context(), CurrentTenantID(c), currentOwner(c), req.ItemID, req.PartnerID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         line.ID,
		"item_id":    line.ItemID,
		"quantity":   line.Quantity,
		"unit_price": line.UnitPrice,
	})
}

// UpdateItem handles PATCH /api/cart/items/:id.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.UpdateCartLine(c.Request.Context(), lineID, *req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/items/:id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RemoveCartLine(c.Request.Context(), lineID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Merge handles POST /api/cart/merge.
func (h *CartHandler) Merge(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req dto.MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeError(c, domainErrors.Validationf("session id is not a valid uuid"))
		return
	}

	cart, err := h.facade.MergeCartOnLogin(c.Request.Context(), CurrentTenantID(c), sessionID, *userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart_id": cart.ID.String()})
}

func toCartResponse(view *model.CartView) dto.CartResponse {
	response := dto.CartResponse{
		ID:          view.Cart.ID.String(),
		ExpiresAt:   view.Cart.ExpiresAt,
		Lines:       make([]dto.CartLineResponse, 0, len(view.Lines)),
		Subtotal:    view.Subtotal,
		ItemCount:   view.ItemCount,
		HasWarnings: view.HasWarnings,
	}
	for _, l := range view.Lines {
		response.Lines = append(response.Lines, dto.CartLineResponse{
			ID:                l.ID,
			ItemID:            l.ItemID,
			ItemName:          l.ItemName,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			CurrentPrice:      l.CurrentPrice,
			PriceChanged:      l.PriceChanged,
			StockInsufficient: l.StockInsufficient,
			AvailableStock:    l.AvailableStock,
			ReservedAt:        l.ReservedAt,
		})
	}
	return response
}
