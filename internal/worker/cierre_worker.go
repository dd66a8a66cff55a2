package worker

// cierre_worker.go
// Processes QueueCierreCaja: renders the PDF report of a closed caja and, when
// a report address is configured, hands it to the email queue.

import (
	"context"
	"encoding/json"
	"fmt"

	"gestorstock/internal/infra"
	"gestorstock/internal/repository"

	"github.com/rs/zerolog/log"
)

type CierreJobPayload struct {
	CajaID uint `json:"caja_id"`
}

// emailEnqueuer is satisfied by *Dispatcher.
type emailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type CierreWorker struct {
	cajaRepo       repository.CajaRepository
	ventaRepo      repository.VentaRepository
	emails         emailEnqueuer
	pdfStoragePath string
	nombreNegocio  string
	reporteEmail   string
}

// NewCierreWorker wires the report worker. emails may be nil, which disables mailing.
func NewCierreWorker(
	cajaRepo repository.CajaRepository,
	ventaRepo repository.VentaRepository,
	emails emailEnqueuer,
	pdfStoragePath, nombreNegocio, reporteEmail string,
) *CierreWorker {
	return &CierreWorker{
		cajaRepo:       cajaRepo,
		ventaRepo:      ventaRepo,
		emails:         emails,
		pdfStoragePath: pdfStoragePath,
		nombreNegocio:  nombreNegocio,
		reporteEmail:   reporteEmail,
	}
}

// Process handles a single cierre job:
//  1. Load the caja and its ventas
//  2. Render cierre_{id}.pdf under pdfStoragePath
//  3. Enqueue the email with the PDF attached (if REPORTE_EMAIL is set)
func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cierre_worker: invalid payload")
		return nil
	}

	caja, err := w.cajaRepo.FindByID(ctx, payload.CajaID)
	if err != nil {
		return fmt.Errorf("cierre_worker: caja %d: %w", payload.CajaID, err)
	}
	ventas, err := w.ventaRepo.ListByCaja(ctx, caja.ID)
	if err != nil {
		return fmt.Errorf("cierre_worker: ventas de caja %d: %w", caja.ID, err)
	}

	pdfPath, err := infra.GenerateCierrePDF(caja, ventas, w.nombreNegocio, w.pdfStoragePath)
	if err != nil {
		return err
	}
	log.Info().Uint("caja_id", caja.ID).Str("pdf", pdfPath).Msg("cierre_worker: report generated")

	if w.reporteEmail == "" || w.emails == nil {
		return nil
	}
	job := EmailJobPayload{
		ToEmail: w.reporteEmail,
		Subject: fmt.Sprintf("%s: cierre de caja #%d", w.nombreNegocio, caja.ID),
		Body: fmt.Sprintf("Cierre de caja #%d del %s.\nVentas: %d\nTotal recaudado: $%s",
			caja.ID, caja.FechaYHoraCierre.Format("02/01/2006 15:04"), len(ventas), caja.TotalRecaudado.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.emails.EnqueueEmail(ctx, job); err != nil {
		// the report exists on disk; retrying would only re-render it
		log.Warn().Err(err).Uint("caja_id", caja.ID).Msg("cierre_worker: failed to enqueue email")
	}
	return nil
}
