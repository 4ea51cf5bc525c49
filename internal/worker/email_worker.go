package worker

// email_worker.go
// Sends the notification emails queued on QueueEmail (welcome messages for
// new accounts, monthly transparency files) through the SMTP breaker.

import (
	"context"
	"encoding/json"
	"errors"

	"aplicas/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the payload of a JobEmail job.
type EmailJobPayload struct {
	To       string   `json:"to"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	Adjuntos []string `json:"adjuntos,omitempty"`
}

// Sender delivers one message; *infra.Mailer implements it.
type Sender interface {
	Enabled() bool
	Send(to, subject, body string, adjuntos ...string) error
}

type EmailWorker struct {
	sender  Sender
	breaker *infra.Breaker
}

func NewEmailWorker(sender Sender, breaker *infra.Breaker) *EmailWorker {
	return &EmailWorker{sender: sender, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Retrying cannot fix a malformed payload.
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.To == "" {
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return nil
	}
	if !w.sender.Enabled() {
		log.Debug().Str("to", payload.To).Msg("email_worker: SMTP not configured, dropping message")
		return nil
	}

	err := w.breaker.Do(func() error {
		return w.sender.Send(payload.To, payload.Subject, payload.Body, payload.Adjuntos...)
	})
	if errors.Is(err, infra.ErrBreakerOpen) {
		log.Warn().Str("to", payload.To).Msg("email_worker: SMTP breaker open")
		return err
	}
	if err != nil {
		log.Error().Err(err).Str("to", payload.To).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
