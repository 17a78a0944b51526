package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/joroshdy12596/ai-pharmacy/internal/apierror"
	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/service"
)

const (
	priceCacheKeyPrefix = "price:"
	priceCacheTTL       = 4 * time.Hour
)

// PriceCheckHandler serves the public in-store price kiosk endpoint.
// Responses are cached in Redis so a wall of scanners does not hammer
// the database; a price change shows up after at most priceCacheTTL.
type PriceCheckHandler struct {
	svc service.MedicineService
	rdb *redis.Client
}

func NewPriceCheckHandler(svc service.MedicineService, rdb *redis.Client) *PriceCheckHandler {
	return &PriceCheckHandler{svc: svc, rdb: rdb}
}

// Check godoc
// @Summary  Public price lookup by barcode (no auth)
// @Tags     public
// @Router   /v1/public/price/{barcode} [get]
func (h *PriceCheckHandler) Check(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Barcode is required"))
		return
	}

	cacheKey := priceCacheKeyPrefix + barcode
	if cached, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
		var resp dto.PriceCheckResponse
		if json.Unmarshal([]byte(cached), &resp) == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	resp, err := h.svc.PriceCheck(c.Request.Context(), barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}

	// Best-effort cache write; a miss here only costs the next reader a query.
	if raw, err := json.Marshal(resp); err == nil {
		if err := h.rdb.Set(context.Background(), cacheKey, raw, priceCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("barcode", barcode).Msg("price cache write failed")
		}
	}

	c.JSON(http.StatusOK, resp)
}
