package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joroshdy12596/ai-pharmacy/internal/apierror"
	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/service"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// AddLot godoc
// @Summary  Add a dated stock lot for a medicine
// @Tags     stock
// @Security BearerAuth
// @Router   /v1/stock/lots [post]
func (h *StockHandler) AddLot(c *gin.Context) {
	var req dto.AddLotRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddLot(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListLots godoc
// @Summary  List lots for a medicine in expiry order
// @Tags     stock
// @Security BearerAuth
// @Router   /v1/stock/lots/{medicineId} [get]
func (h *StockHandler) ListLots(c *gin.Context) {
	medicineID, err := uuid.Parse(c.Param("medicineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid medicine ID"))
		return
	}
	resp, err := h.svc.ListLots(c.Request.Context(), medicineID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list lots"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary  Recompute the derived stock cache for a medicine
// @Tags     stock
// @Security BearerAuth
// @Router   /v1/stock/refresh/{medicineId} [post]
func (h *StockHandler) Refresh(c *gin.Context) {
	medicineID, err := uuid.Parse(c.Param("medicineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid medicine ID"))
		return
	}
	stock, err := h.svc.Refresh(c.Request.Context(), medicineID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.StockRefreshResponse{MedicineID: medicineID.String(), Stock: stock})
}

// Prune godoc
// @Summary  Delete fully consumed lots
// @Tags     stock
// @Security BearerAuth
// @Router   /v1/stock/prune [post]
func (h *StockHandler) Prune(c *gin.Context) {
	resp, err := h.svc.Prune(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Prune failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Merge godoc
// @Summary  Merge duplicate lots (same medicine and expiry date)
// @Tags     stock
// @Security BearerAuth
// @Router   /v1/stock/merge [post]
func (h *StockHandler) Merge(c *gin.Context) {
	resp, err := h.svc.MergeDuplicateLots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Merge failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExpiryReport godoc
// @Summary  Lots expiring within N days (default 30)
// @Tags     stock
// @Security BearerAuth
// @Router   /v1/stock/expiring [get]
func (h *StockHandler) ExpiryReport(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	resp, err := h.svc.ExpiryReport(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build expiry report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
