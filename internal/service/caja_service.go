package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gestorstock/internal/dto"
	"gestorstock/internal/metrics"
	"gestorstock/internal/model"
	"gestorstock/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	limiteCajasDefault = 20
	limiteCajasMax     = 100
)

type CajaService interface {
	CerrarCaja(ctx context.Context) (*dto.CajaResponse, error)
	ResumenDiario(ctx context.Context) (*dto.ResumenDiarioResponse, error)
	VentasPorCaja(ctx context.Context, cajaID uint) ([]dto.VentaResponse, error)
	ListarCajas(ctx context.Context, limite int) ([]dto.CajaResponse, error)
}

// CierreEnqueuer schedules the async work that follows a cierre de caja.
// *worker.Dispatcher implements it.
type CierreEnqueuer interface {
	EnqueueCierreCaja(ctx context.Context, cajaID uint) error
}

type cajaService struct {
	repo       repository.CajaRepository
	ventaRepo  repository.VentaRepository
	dispatcher CierreEnqueuer
}

// NewCajaService wires the register closer. dispatcher may be nil.
func NewCajaService(repo repository.CajaRepository, ventaRepo repository.VentaRepository, dispatcher CierreEnqueuer) CajaService {
	return &cajaService{repo: repo, ventaRepo: ventaRepo, dispatcher: dispatcher}
}

// ── CerrarCaja ────────────────────────────────────────────────────────────────
// Settles every pending venta in one transaction. The pending rows are locked,
// so a concurrent update/delete of one of them waits for the cierre and then
// sees it cerrada.

func (s *cajaService) CerrarCaja(ctx context.Context) (*dto.CajaResponse, error) {
	var caja model.Caja
	var cantidad int
	txErr := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		pendientes, err := s.ventaRepo.ListPendientesForUpdateTx(ctx, tx)
		if err != nil {
			return err
		}
		if len(pendientes) == 0 {
			return ErrNadaParaCerrar
		}

		ids := make([]uint, 0, len(pendientes))
		totales := make([]decimal.Decimal, 0, len(pendientes))
		for _, v := range pendientes {
			ids = append(ids, v.ID)
			totales = append(totales, v.ImporteTotal)
		}

		caja = model.Caja{
			TotalRecaudado:   decimal.Sum(decimal.Zero, totales...),
			FechaYHoraCierre: time.Now(),
		}
		if err := s.repo.CreateTx(ctx, tx, &caja); err != nil {
			return err
		}
		cantidad = len(ids)
		return s.ventaRepo.AsignarCajaTx(ctx, tx, ids, caja.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.CierresCaja.Inc()
	log.Info().
		Uint("caja_id", caja.ID).
		Int("ventas", cantidad).
		Str("total_recaudado", caja.TotalRecaudado.StringFixed(2)).
		Msg("caja cerrada")

	// Async report (best-effort: the cierre is already committed)
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueCierreCaja(ctx, caja.ID); err != nil {
			log.Warn().Err(err).Uint("caja_id", caja.ID).Msg("no se pudo encolar el reporte de cierre")
		}
	}

	return cajaToResponse(&caja), nil
}

// ── ResumenDiario ─────────────────────────────────────────────────────────────
// Read-only totals of the ventas that the next cierre would settle.

func (s *cajaService) ResumenDiario(ctx context.Context) (*dto.ResumenDiarioResponse, error) {
	pendientes, err := s.ventaRepo.ListPendientes(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResumenDiarioResponse{
		TotalOrdenesCompra: decimal.Zero,
		TotalFacturasB:     decimal.Zero,
		TotalDia:           decimal.Zero,
	}
	for _, v := range pendientes {
		switch v.Tipo {
		case model.TipoOrdenCompra:
			resp.TotalOrdenesCompra = resp.TotalOrdenesCompra.Add(v.ImporteTotal)
		case model.TipoFacturaB:
			resp.TotalFacturasB = resp.TotalFacturasB.Add(v.ImporteTotal)
		}
		resp.TotalDia = resp.TotalDia.Add(v.ImporteTotal)
	}
	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) VentasPorCaja(ctx context.Context, cajaID uint) ([]dto.VentaResponse, error) {
	if _, err := s.repo.FindByID(ctx, cajaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: caja %d", ErrNoEncontrado, cajaID)
		}
		return nil, err
	}
	ventas, err := s.ventaRepo.ListByCaja(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	return ventasToResponse(ventas), nil
}

func (s *cajaService) ListarCajas(ctx context.Context, limite int) ([]dto.CajaResponse, error) {
	if limite <= 0 {
		limite = limiteCajasDefault
	}
	if limite > limiteCajasMax {
		limite = limiteCajasMax
	}
	cajas, err := s.repo.List(ctx, limite)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CajaResponse, 0, len(cajas))
	for i := range cajas {
		out = append(out, *cajaToResponse(&cajas[i]))
	}
	return out, nil
}

func cajaToResponse(c *model.Caja) *dto.CajaResponse {
	return &dto.CajaResponse{
		ID:               c.ID,
		TotalRecaudado:   c.TotalRecaudado,
		FechaYHoraCierre: c.FechaYHoraCierre.Format(time.RFC3339),
	}
}
