package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joroshdy12596/ai-pharmacy/internal/apierror"
	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/service"
)

type MedicineHandler struct{ svc service.MedicineService }

func NewMedicineHandler(svc service.MedicineService) *MedicineHandler {
	return &MedicineHandler{svc: svc}
}

// Create godoc
// @Summary  Register a new medicine
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines [post]
func (h *MedicineHandler) Create(c *gin.Context) {
	var req dto.CreateMedicineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary  List medicines with filters and pagination
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines [get]
func (h *MedicineHandler) List(c *gin.Context) {
	var filter dto.MedicineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list medicines"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary  Get a medicine by ID
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines/{id} [get]
func (h *MedicineHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMedicineNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to fetch medicine"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByBarcode godoc
// @Summary  Look up a medicine by barcode
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines/barcode/{barcode} [get]
func (h *MedicineHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	resp, err := h.svc.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary  Update medicine fields (partial)
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines/{id} [patch]
func (h *MedicineHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateMedicineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary  Soft-delete a medicine (hidden from POS lookups)
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines/{id} [delete]
func (h *MedicineHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivate godoc
// @Summary  Restore a soft-deleted medicine
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines/{id}/reactivate [post]
func (h *MedicineHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// LowStock godoc
// @Summary  Medicines at or below their reorder level
// @Tags     medicines
// @Security BearerAuth
// @Router   /v1/medicines/low-stock [get]
func (h *MedicineHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStockAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to fetch low stock alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
