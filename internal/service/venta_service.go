package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gestorstock/internal/calculo"
	"gestorstock/internal/dto"
	"gestorstock/internal/infra"
	"gestorstock/internal/metrics"
	"gestorstock/internal/model"
	"gestorstock/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	limiteRecientesDefault = 5
	limiteRecientesMax     = 100
)

type VentaService interface {
	Crear(ctx context.Context, req dto.VentaRequest) (*dto.VentaRegistradaResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.VentaRequest) (*dto.VentaRegistradaResponse, error)
	Eliminar(ctx context.Context, id uint) error
	Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error)
	ListarRecientes(ctx context.Context, limite int) ([]dto.VentaResponse, error)
	// GenerarTicket renders the PDF ticket of the venta.
	GenerarTicket(ctx context.Context, id uint) ([]byte, error)
}

type ventaService struct {
	repo          repository.VentaRepository
	inventario    InventarioService
	nombreNegocio string
}

func NewVentaService(repo repository.VentaRepository, inventario InventarioService, nombreNegocio string) VentaService {
	return &ventaService{repo: repo, inventario: inventario, nombreNegocio: nombreNegocio}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Validate request (before opening the tx)
//   2. BEGIN TX: insert venta with importe_total = 0, estado pendiente
//   3. For each detalle in input order: reserve stock, snapshot price, compute subtotal
//   4. Persist importe_total = Σ subtotales
//   5. COMMIT, return venta + advertencias

func (s *ventaService) Crear(ctx context.Context, req dto.VentaRequest) (*dto.VentaRegistradaResponse, error) {
	tipo, err := validarVenta(req)
	if err != nil {
		return nil, err
	}

	venta := model.Venta{
		FechaYHora:       time.Now(),
		Tipo:             tipo,
		Estado:           model.EstadoPendiente,
		DescuentoGeneral: req.DescuentoGeneral,
		Redondeo:         req.Redondeo,
		ImporteTotal:     decimal.Zero,
	}

	var advertencias []string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, &venta); err != nil {
			return err
		}
		detalles, adv, err := s.registrarDetalles(ctx, tx, &venta, req.Detalles)
		if err != nil {
			return err
		}
		advertencias = adv
		venta.Detalles = detalles
		return s.repo.UpdateTotalTx(ctx, tx, venta.ID, venta.ImporteTotal)
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.VentasCreadas.WithLabelValues(venta.Tipo).Inc()
	s.logAdvertencias(venta.ID, advertencias)

	return &dto.VentaRegistradaResponse{VentaResponse: *ventaToResponse(&venta), Warnings: advertencias}, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Replaces the whole detalle set. The venta keeps its id and fecha_y_hora; stock
// for the old detalles is released before the new ones are reserved.

func (s *ventaService) Actualizar(ctx context.Context, id uint, req dto.VentaRequest) (*dto.VentaRegistradaResponse, error) {
	tipo, err := validarVenta(req)
	if err != nil {
		return nil, err
	}

	var venta *model.Venta
	var advertencias []string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.bloquearVenta(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.liberarDetalles(ctx, tx, v.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteDetallesTx(ctx, tx, v.ID); err != nil {
			return err
		}

		v.Tipo = tipo
		v.DescuentoGeneral = req.DescuentoGeneral
		v.Redondeo = req.Redondeo
		detalles, adv, err := s.registrarDetalles(ctx, tx, v, req.Detalles)
		if err != nil {
			return err
		}
		advertencias = adv
		v.Detalles = detalles
		venta = v
		return s.repo.UpdateCabeceraTx(ctx, tx, v)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.logAdvertencias(venta.ID, advertencias)

	return &dto.VentaRegistradaResponse{VentaResponse: *ventaToResponse(venta), Warnings: advertencias}, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *ventaService) Eliminar(ctx context.Context, id uint) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.bloquearVenta(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.liberarDetalles(ctx, tx, v.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteDetallesTx(ctx, tx, v.ID); err != nil {
			return err
		}
		return s.repo.DeleteTx(ctx, tx, v.ID)
	})
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *ventaService) Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	v, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) GenerarTicket(ctx context.Context, id uint) ([]byte, error) {
	v, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return infra.GenerateTicketPDF(v, s.nombreNegocio)
}

func (s *ventaService) buscar(ctx context.Context, id uint) (*model.Venta, error) {
	v, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: venta %d", ErrNoEncontrado, id)
	}
	return v, err
}

// ListarRecientes returns the newest ventas first. limite <= 0 means the default.
func (s *ventaService) ListarRecientes(ctx context.Context, limite int) ([]dto.VentaResponse, error) {
	if limite <= 0 {
		limite = limiteRecientesDefault
	}
	if limite > limiteRecientesMax {
		limite = limiteRecientesMax
	}
	ventas, err := s.repo.ListRecientes(ctx, limite)
	if err != nil {
		return nil, err
	}
	return ventasToResponse(ventas), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func validarVenta(req dto.VentaRequest) (string, error) {
	if len(req.Detalles) == 0 {
		return "", fmt.Errorf("%w: la venta debe tener al menos un detalle", ErrValidacion)
	}
	for i, d := range req.Detalles {
		if d.IDProducto == nil {
			return "", fmt.Errorf("%w: detalle %d sin id_producto", ErrValidacion, i+1)
		}
		if d.Cantidad <= 0 {
			return "", fmt.Errorf("%w: detalle %d con cantidad %d", ErrValidacion, i+1, d.Cantidad)
		}
		if d.PrecioUnitario != nil {
			if err := validarImporte(fmt.Sprintf("detalle %d: precio_unitario", i+1), *d.PrecioUnitario); err != nil {
				return "", err
			}
		}
		if err := validarImporte(fmt.Sprintf("detalle %d: descuento_individual", i+1), d.DescuentoIndividual); err != nil {
			return "", err
		}
	}
	if err := validarImporte("descuento_general", req.DescuentoGeneral); err != nil {
		return "", err
	}
	if err := validarImporte("redondeo", req.Redondeo); err != nil {
		return "", err
	}
	switch req.Tipo {
	case "":
		return model.TipoOrdenCompra, nil
	case model.TipoOrdenCompra, model.TipoFacturaB:
		return req.Tipo, nil
	default:
		return "", fmt.Errorf("%w: tipo de venta %q desconocido", ErrValidacion, req.Tipo)
	}
}

// Importes and percentages are stored as decimal(10,2). Anything finer or
// larger would be rounded or rejected by the column, leaving a subtotal that no
// longer matches the stored fields.
var (
	maxImporte  = decimal.New(1, 8)
	maxSubtotal = decimal.New(1, 12)
)

func validarImporte(campo string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: %s admite hasta 2 decimales (%s)", ErrValidacion, campo, d)
	}
	if d.Abs().GreaterThanOrEqual(maxImporte) {
		return fmt.Errorf("%w: %s fuera de rango (%s)", ErrValidacion, campo, d)
	}
	return nil
}

// bloquearVenta re-reads the venta under a row lock so the estado check cannot
// race a concurrent cierre de caja.
func (s *ventaService) bloquearVenta(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error) {
	v, err := s.repo.FindByIDForUpdateTx(ctx, tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: venta %d", ErrNoEncontrado, id)
	}
	if err != nil {
		return nil, err
	}
	if v.Cerrada() {
		return nil, fmt.Errorf("%w: venta %d", ErrVentaCerrada, id)
	}
	return v, nil
}

// registrarDetalles reserves stock and inserts one detalle per request line, in
// input order. It sets v.ImporteTotal and returns the collected advertencias
// (never nil).
func (s *ventaService) registrarDetalles(ctx context.Context, tx *gorm.DB, v *model.Venta, reqs []dto.DetalleVentaRequest) ([]model.VentaDetalle, []string, error) {
	detalles := make([]model.VentaDetalle, 0, len(reqs))
	subtotales := make([]decimal.Decimal, 0, len(reqs))
	advertencias := []string{}

	for i, r := range reqs {
		p, adv, err := s.inventario.ReservarStockTx(ctx, tx, *r.IDProducto, r.Cantidad, v.ID)
		if errors.Is(err, ErrNoEncontrado) {
			return nil, nil, fmt.Errorf("%w: detalle %d: producto %d inexistente", ErrValidacion, i+1, *r.IDProducto)
		}
		if err != nil {
			return nil, nil, err
		}
		if adv != "" {
			advertencias = append(advertencias, adv)
		}

		precio := p.PrecioFinal
		if r.PrecioUnitario != nil {
			precio = *r.PrecioUnitario
		}
		pid := p.ID
		d := model.VentaDetalle{
			VentaID:             v.ID,
			ProductoID:          &pid,
			Cantidad:            r.Cantidad,
			PrecioUnitario:      precio,
			DescuentoIndividual: r.DescuentoIndividual,
			Subtotal:            calculo.SubtotalLinea(precio, r.Cantidad, r.DescuentoIndividual, v.DescuentoGeneral),
		}
		if d.Subtotal.Abs().GreaterThanOrEqual(maxSubtotal) {
			return nil, nil, fmt.Errorf("%w: detalle %d: subtotal fuera de rango (%s)", ErrValidacion, i+1, d.Subtotal)
		}
		if err := s.repo.CreateDetalleTx(ctx, tx, &d); err != nil {
			return nil, nil, err
		}
		d.Producto = p
		detalles = append(detalles, d)
		subtotales = append(subtotales, d.Subtotal)
	}

	v.ImporteTotal = calculo.TotalVenta(subtotales...)
	return detalles, advertencias, nil
}

// liberarDetalles gives back the stock of every detalle of the venta. Detalles
// whose producto was deleted have no stock to give back and are skipped.
func (s *ventaService) liberarDetalles(ctx context.Context, tx *gorm.DB, ventaID uint) error {
	detalles, err := s.repo.ListDetallesTx(ctx, tx, ventaID)
	if err != nil {
		return err
	}
	for _, d := range detalles {
		if d.ProductoID == nil {
			continue
		}
		err := s.inventario.LiberarStockTx(ctx, tx, *d.ProductoID, d.Cantidad, ventaID)
		if errors.Is(err, ErrNoEncontrado) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ventaService) logAdvertencias(ventaID uint, advertencias []string) {
	if len(advertencias) == 0 {
		return
	}
	metrics.AdvertenciasStock.Add(float64(len(advertencias)))
	log.Warn().Uint("venta_id", ventaID).Strs("advertencias", advertencias).Msg("venta registrada con stock insuficiente")
}

// ── mapping ───────────────────────────────────────────────────────────────────

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:               v.ID,
		ImporteTotal:     v.ImporteTotal,
		FechaYHora:       v.FechaYHora.Format(time.RFC3339),
		Caja:             v.CajaID,
		Tipo:             v.Tipo,
		Estado:           v.Estado,
		DescuentoGeneral: v.DescuentoGeneral,
		Redondeo:         v.Redondeo,
		Detalles:         make([]dto.DetalleVentaResponse, 0, len(v.Detalles)),
	}
	for _, d := range v.Detalles {
		item := dto.DetalleVentaResponse{
			ID:                  d.ID,
			Cantidad:            d.Cantidad,
			PrecioUnitario:      d.PrecioUnitario,
			DescuentoIndividual: d.DescuentoIndividual,
			Subtotal:            d.Subtotal,
		}
		if d.Producto != nil {
			item.Producto = &dto.ProductoResumen{
				ID:           d.Producto.ID,
				Nombre:       d.Producto.Nombre,
				Stock:        d.Producto.Stock,
				PrecioFinal:  d.Producto.PrecioFinal,
				CodigoBarras: d.Producto.CodigoBarras,
			}
		}
		resp.Detalles = append(resp.Detalles, item)
	}
	return resp
}

func ventasToResponse(ventas []model.Venta) []dto.VentaResponse {
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, *ventaToResponse(&ventas[i]))
	}
	return out
}
