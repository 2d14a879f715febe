package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/server/http/dto"
	"github.com/vendrix/storefront/internal/usecase"
)

// CheckoutHandler turns a cart into an order graph.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Create handles POST /api/checkout.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	params := usecase.CheckoutParams{
		TenantID:  CurrentTenantID(c),
		UserID:    CurrentUserID(c),
		SessionID: CurrentSessionID(c),
		Customer: usecase.CustomerHint{
			ID:    req.Customer.ID,
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			TaxID: req.Customer.TaxID,
			Phone: req.Customer.Phone,
		},
		DiscountAmount:  req.DiscountAmount,
		ShippingCost:    req.ShippingCost,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PartnerID:       req.PartnerID,
	}
	if req.Schedule != nil {
		date, err := time.Parse(time.DateOnly, req.Schedule.Date)
		if err != nil {
			writeError(c, domainErrors.Validationf("schedule date must be YYYY-MM-DD"))
			return
		}
		params.Schedule = &usecase.ScheduleSlot{Date: date, Window: req.Schedule.Window}
	}

	result, err := h.facade.Checkout(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	response := dto.CheckoutResponse{
		Order:        toOrderResponse(*result.Order),
		InvoiceID:    result.InvoiceID,
		ReceivableID: result.ReceivableID,
		CommissionID: result.CommissionID,
	}
	if result.PaymentInstrument != nil {
		response.PaymentInstrument = &dto.PaymentInstrumentResponse{
			HumanCode:     result.PaymentInstrument.HumanCode,
			ScannableCode: result.PaymentInstrument.ScannableCode,
			RawKey:        result.PaymentInstrument.RawKey,
		}
	}
	c.JSON(http.StatusCreated, response)
}
