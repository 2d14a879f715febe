package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/server/http/dto"
	"github.com/vendrix/storefront/internal/server/http/middleware"
	"github.com/vendrix/storefront/internal/usecase"
)

// CurrentTenantID extracts the resolved tenant identifier from context.
func CurrentTenantID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.TenantIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentUserID extracts the authenticated user identifier from context.
func CurrentUserID(c *gin.Context) *int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return nil
	}
	id, ok := val.(int64)
	if !ok {
		return nil
	}
	return &id
}

// CurrentSessionID extracts the anonymous session identifier from context.
func CurrentSessionID(c *gin.Context) *uuid.UUID {
	val, ok := c.Get(middleware.SessionIDContextKey)
	if !ok {
		return nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// currentOwner builds the cart owner reference from context identity.
func currentOwner(c *gin.Context) usecase.CartOwner {
	return usecase.CartOwner{UserID: CurrentUserID(c), SessionID: CurrentSessionID(c)}
}

// writeError maps a domain error onto the HTTP surface. Unclassified errors
// stay opaque 500s.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, domainErrors.ErrCheckoutBusy) {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Kind: string(domainErrors.KindOf(err)), Message: err.Error()})
		return
	}

	var status int
	switch domainErrors.KindOf(err) {
	case domainErrors.KindValidation:
		status = http.StatusUnprocessableEntity
	case domainErrors.KindNotFound:
		status = http.StatusNotFound
	case domainErrors.KindTransition:
		status = http.StatusConflict
	case domainErrors.KindUnavailable:
		status = http.StatusServiceUnavailable
	default:
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(status, dto.ErrorResponse{Kind: string(domainErrors.KindOf(err)), Message: err.Error()})
}
