package handler

import (
	"net/http"
	"time"

	"gestorstock/internal/dto"
	"gestorstock/internal/repository"
	"gestorstock/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct {
	svc        service.ProductoService
	inventario service.InventarioService
}

func NewProductosHandler(svc service.ProductoService, inventario service.InventarioService) *ProductosHandler {
	return &ProductosHandler{svc: svc, inventario: inventario}
}

// Crear godoc
// @Summary Alta de producto
// @Tags productos
// @Accept json
// @Produce json
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerPorID godoc
// @Summary Obtener producto
// @Tags productos
// @Produce json
// @Param id path int true "ID del producto"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id} [get]
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos godoc
// @Summary Movimientos de stock de un producto
// @Tags productos
// @Produce json
// @Param id path int true "ID del producto"
// @Param limit query int false "Cantidad (default 100)"
// @Success 200 {array} dto.MovimientoStockResponse
// @Router /v1/productos/{id}/movimientos [get]
func (h *ProductosHandler) Movimientos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	movs, err := h.inventario.ListarMovimientos(c.Request.Context(), repository.MovimientoStockFilter{
		ProductoID: &id,
		Limit:      filter.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		resp = append(resp, dto.MovimientoStockResponse{
			ID:            m.ID,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			VentaID:       m.VentaID,
			Fecha:         m.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}
