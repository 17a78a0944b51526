package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joroshdy12596/ai-pharmacy/internal/apierror"
	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/middleware"
	"github.com/joroshdy12596/ai-pharmacy/internal/service"
)

// POSHandler serves the cashier flow: the per-operator cart and checkout.
type POSHandler struct {
	cart  service.CartService
	sales service.SaleService
}

func NewPOSHandler(cart service.CartService, sales service.SaleService) *POSHandler {
	return &POSHandler{cart: cart, sales: sales}
}

func operatorID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Authentication required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return uuid.Nil, false
	}
	return id, true
}

// ── Cart ─────────────────────────────────────────────────────────────────────

// GetCart godoc
// @Summary  Get the current operator's cart
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/cart [get]
func (h *POSHandler) GetCart(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	resp, err := h.cart.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load cart"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddLine godoc
// @Summary  Scan a barcode into the cart
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/cart/lines [post]
func (h *POSHandler) AddLine(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	var req dto.AddCartLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cart.AddLine(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrMedicineNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrInsufficientStock) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveLine godoc
// @Summary  Remove a cart line by index
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/cart/lines/{index} [delete]
func (h *POSHandler) RemoveLine(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid line index"))
		return
	}
	resp, err := h.cart.RemoveLine(c.Request.Context(), userID, index)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetCustomer godoc
// @Summary  Attach or detach a customer; reprices every line
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/cart/customer [put]
func (h *POSHandler) SetCustomer(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	var req dto.SetCartCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cart.SetCustomer(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrCustomerNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClearCart godoc
// @Summary  Empty the current operator's cart
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/cart [delete]
func (h *POSHandler) ClearCart(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	if err := h.cart.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to clear cart"))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Checkout and sales ───────────────────────────────────────────────────────

// Checkout godoc
// @Summary  Complete the cart as a sale (atomic stock draw + payment)
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/checkout [post]
func (h *POSHandler) Checkout(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sales.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrEmptyCart) {
			status = http.StatusConflict
		} else if errors.Is(err, service.ErrNoAvailableStock) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSales godoc
// @Summary  List completed sales for a date (default today)
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/sales [get]
func (h *POSHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.sales.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaleDetail godoc
// @Summary  Get a sale with its frozen line prices
// @Tags     pos
// @Security BearerAuth
// @Router   /v1/pos/sales/{id} [get]
func (h *POSHandler) SaleDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.sales.Detail(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
