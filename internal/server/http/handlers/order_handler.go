package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vendrix/storefront/internal/domain/model"
	"github.com/vendrix/storefront/internal/domain/repository"
	"github.com/vendrix/storefront/internal/server/http/dto"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders. Authenticated buyers see their own orders;
// the tenant-wide listing accepts status and partner filters.
func (h *OrderHandler) List(c *gin.Context) {
	tenantID := CurrentTenantID(c)

	if c.Query("scope") == "mine" {
		userID := CurrentUserID(c)
		if userID == nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		orders, err := h.facade.OrdersByUser(c.Request.Context(), tenantID, *userID)
		if err != nil {
			writeError(c, err)
			return
		}
		h.writeOrders(c, orders)
		return
	}

	var filter model.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status := model.OnlineStatus(raw)
		filter.OnlineStatus = &status
	}
	if raw := c.Query("partner_id"); raw != "" {
		partnerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		filter.PartnerID = &partnerID
	}

	orders, err := h.facade.Orders(c.Request.Context(), tenantID, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	h.writeOrders(c, orders)
}

func (h *OrderHandler) writeOrders(c *gin.Context, orders []model.Order) {
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Show handles GET /api/orders/:id.
func (h *OrderHandler) Show(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentTenantID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Lines handles GET /api/orders/:id/lines.
func (h *OrderHandler) Lines(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	lines, err := h.facade.OrderLines(c.Request.Context(), CurrentTenantID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderLineResponse, 0, len(lines))
	for _, l := range lines {
		response = append(response, dto.OrderLineResponse{
			ID:                  l.ID,
			ParentLineID:        l.ParentLineID,
			ItemID:              l.ItemID,
			Kind:                string(l.Kind),
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			SeparationStatus:    string(l.SeparationStatus),
			DeliveryStatus:      string(l.DeliveryStatus),
			FulfillmentStatus:   string(l.FulfillmentStatus),
			IsCompositionParent: l.IsCompositionParent,
			Position:            l.Position,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Summary handles GET /api/orders/summary.
func (h *OrderHandler) Summary(c *gin.Context) {
	counts, err := h.facade.OrderStatusSummary(c.Request.Context(), CurrentTenantID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response := make(map[string]int, len(counts))
	for status, count := range counts {
		response[string(status)] = count
	}
	c.JSON(http.StatusOK, response)
}

// ConfirmPayment handles POST /api/orders/:id/confirm-payment.
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.facade.ConfirmPayment(c.Request.Context(), CurrentTenantID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Advance handles POST /api/orders/:id/advance.
func (h *OrderHandler) Advance(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var meta *repository.ShippingMeta
	if req.TrackingCode != nil || req.EstimatedDelivery != nil {
		meta = &repository.ShippingMeta{
			TrackingCode:      req.TrackingCode,
			EstimatedDelivery: req.EstimatedDelivery,
		}
	}

	order, err := h.facade.AdvanceOrder(c.Request.Context(), CurrentTenantID(c), orderID, model.OnlineStatus(req.Status), meta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentTenantID(c), orderID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// PaymentInstrument handles POST /api/orders/:id/payment-instrument.
func (h *OrderHandler) PaymentInstrument(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	instrument, err := h.facade.RegeneratePaymentInstrument(c.Request.Context(), CurrentTenantID(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentInstrumentResponse{
		HumanCode:     instrument.HumanCode,
		ScannableCode: instrument.ScannableCode,
		RawKey:        instrument.RawKey,
	})
}

func orderIDParam(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return orderID, true
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		Channel:            string(order.Channel),
		Status:             string(order.Status),
		OnlineStatus:       string(order.OnlineStatus),
		Subtotal:           order.Subtotal,
		DiscountAmount:     order.DiscountAmount,
		ShippingCost:       order.ShippingCost,
		Total:              order.Total,
		PartnerID:          order.PartnerID,
		InvoiceID:          order.InvoiceID,
		ShippingAddress:    order.ShippingAddress,
		HasPendingProducts: order.HasPendingProducts,
		HasPendingServices: order.HasPendingServices,
		TrackingCode:       order.TrackingCode,
		EstimatedDelivery:  order.EstimatedDelivery,
		PaidAt:             order.PaidAt,
		CancelReason:       order.CancelReason,
		CreatedAt:          order.CreatedAt,
	}
}
