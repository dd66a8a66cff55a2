package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gestorstock/internal/apierror"
	"gestorstock/internal/dto"
	"gestorstock/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ConsultaPreciosHandler serves the price check by barcode. Answers are cached
// in Redis for ttl; a nil rdb disables the cache.
type ConsultaPreciosHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewConsultaPreciosHandler(repo repository.ProductoRepository, rdb *redis.Client, ttl time.Duration) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{repo: repo, rdb: rdb, ttl: ttl}
}

// GetPrecioPorBarcode godoc
// @Summary Consulta de precio por codigo de barras
// @Tags precio
// @Produce json
// @Param barcode path string true "Codigo de barras"
// @Success 200 {object} dto.ConsultaPreciosResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{barcode} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := "precio:" + barcode

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ConsultaPreciosResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, resp)
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", cacheKey).Msg("consulta_precios: cache read failed")
		}
	}

	// 2. Cache miss: query DB
	producto, err := h.repo.FindByBarcode(ctx, barcode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.ConsultaPreciosResponse{
		Nombre:          producto.Nombre,
		PrecioFinal:     producto.PrecioFinal,
		StockDisponible: producto.Stock,
	}

	// 3. Populate cache: best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.WithoutCancel(ctx), cacheKey, b, h.ttl).Err()
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, resp)
}
