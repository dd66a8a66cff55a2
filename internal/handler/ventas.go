package handler

import (
	"fmt"
	"net/http"

	"gestorstock/internal/dto"
	"gestorstock/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar una nueva venta
// @Description  Reserva stock por cada detalle y calcula el importe total. El stock insuficiente no rechaza la venta: se informa en warnings.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body body dto.VentaRequest true "Cabecera y detalles de la venta"
// @Success      201  {object} dto.VentaRegistradaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.VentaRequest
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

// Listar godoc
// @Summary      Ventas recientes
// @Tags         ventas
// @Produce      json
// @Param        limit query int false "Cantidad (default 5, max 100)"
// @Success      200   {array}  dto.VentaResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarRecientes(c.Request.Context(), filter.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener venta
// @Tags         ventas
// @Produce      json
// @Param        id  path     int true "ID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar venta pendiente
// @Description  Reemplaza todos los detalles: devuelve el stock de los anteriores y reserva el de los nuevos.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path     int              true "ID de la venta"
// @Param        body body     dto.VentaRequest true "Cabecera y detalles nuevos"
// @Success      200  {object} dto.VentaRegistradaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [put]
func (h *VentasHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.VentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar venta pendiente
// @Description  Devuelve el stock de todos los detalles y borra la venta.
// @Tags         ventas
// @Param        id  path int true "ID de la venta"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ticket godoc
// @Summary      Ticket PDF de la venta
// @Tags         ventas
// @Produce      application/pdf
// @Param        id  path int true "ID de la venta"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/pdf [get]
func (h *VentasHandler) Ticket(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.GenerarTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=venta_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
