package handler

import (
	"net/http"

	"gestorstock/internal/dto"
	"gestorstock/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Cerrar godoc
// @Summary Cierra la caja con todas las ventas pendientes
// @Tags caja
// @Produce json
// @Success 201 {object} dto.CajaResponse
// @Failure 400 {object} apierror.APIError "No hay ventas pendientes"
// @Router /v1/cajas/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	resp, err := h.svc.CerrarCaja(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ResumenDiario godoc
// @Summary Totales de las ventas pendientes por tipo
// @Tags caja
// @Produce json
// @Success 200 {object} dto.ResumenDiarioResponse
// @Router /v1/cajas/resumen-diario [get]
func (h *CajaHandler) ResumenDiario(c *gin.Context) {
	resp, err := h.svc.ResumenDiario(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ventas godoc
// @Summary Ventas incluidas en un cierre de caja
// @Tags caja
// @Produce json
// @Param id path int true "ID de la caja"
// @Success 200 {array} dto.VentaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id}/ventas [get]
func (h *CajaHandler) Ventas(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.VentasPorCaja(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Cierres de caja, el mas reciente primero
// @Tags caja
// @Produce json
// @Param limit query int false "Cantidad (default 20, max 100)"
// @Success 200 {array} dto.CajaResponse
// @Router /v1/cajas [get]
func (h *CajaHandler) Listar(c *gin.Context) {
	var filter dto.CajaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarCajas(c.Request.Context(), filter.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
