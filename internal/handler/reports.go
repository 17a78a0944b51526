package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joroshdy12596/ai-pharmacy/internal/apierror"
	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/service"
)

type ReportHandler struct{ svc service.ProfitService }

func NewReportHandler(svc service.ProfitService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GenerateSnapshot godoc
// @Summary  Recompute and store the profit snapshot for a date (default today)
// @Tags     reports
// @Security BearerAuth
// @Router   /v1/reports/snapshots [post]
func (h *ReportHandler) GenerateSnapshot(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	resp, err := h.svc.GenerateDailySnapshot(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Snapshot generation failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Snapshots godoc
// @Summary  Stored daily snapshots over a range (default last 30 days)
// @Tags     reports
// @Security BearerAuth
// @Router   /v1/reports/snapshots [get]
func (h *ReportHandler) Snapshots(c *gin.Context) {
	var filter dto.ReportRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.SnapshotRange(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MedicineProfit godoc
// @Summary  Per-medicine profit over a range, priced at historical cost
// @Tags     reports
// @Security BearerAuth
// @Router   /v1/reports/medicine-profit [get]
func (h *ReportHandler) MedicineProfit(c *gin.Context) {
	var filter dto.ReportRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.MedicineProfitReport(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InventoryValue godoc
// @Summary  Current stock valued at cost and at list price
// @Tags     reports
// @Security BearerAuth
// @Router   /v1/reports/inventory-value [get]
func (h *ReportHandler) InventoryValue(c *gin.Context) {
	resp, err := h.svc.InventoryValue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to value inventory"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
