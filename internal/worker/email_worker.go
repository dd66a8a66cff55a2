package worker

// email_worker.go
// Processes email jobs from QueueEmail. The only producer today is the cierre
// de caja report.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gestorstock/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// sender is the slice of infra.Mailer the worker needs.
type sender interface {
	Send(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer sender
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// malformed payloads never succeed on retry
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	if errors.Is(err, infra.ErrSMTPNoConfigurado) {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
	return nil
}
