package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"aplicas/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	enabled bool
	err     error
	sent    []EmailJobPayload
}

func (s *fakeSender) Enabled() bool { return s.enabled }

func (s *fakeSender) Send(to, subject, body string, adjuntos ...string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, EmailJobPayload{To: to, Subject: subject, Body: body, Adjuntos: adjuntos})
	return nil
}

func payload(t *testing.T, p EmailJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func newBreaker() *infra.Breaker {
	return infra.NewBreaker(infra.BreakerConfig{Name: "smtp-test", MaxFallos: 2, Enfriamiento: time.Hour})
}

func TestEmailWorker_Envia(t *testing.T) {
	sender := &fakeSender{enabled: true}
	w := NewEmailWorker(sender, newBreaker())

	err := w.Process(context.Background(), payload(t, EmailJobPayload{
		To: "finanzas@muni.cl", Subject: "Transparencia 03/2024", Adjuntos: []string{"/tmp/a.csv"},
	}))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"/tmp/a.csv"}, sender.sent[0].Adjuntos)
}

func TestEmailWorker_SMTPDeshabilitado(t *testing.T) {
	sender := &fakeSender{enabled: false}
	w := NewEmailWorker(sender, newBreaker())

	err := w.Process(context.Background(), payload(t, EmailJobPayload{To: "a@muni.cl"}))

	assert.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestEmailWorker_PayloadInvalidoNoReintenta(t *testing.T) {
	w := NewEmailWorker(&fakeSender{enabled: true}, newBreaker())

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to":`)))
	assert.NoError(t, w.Process(context.Background(), payload(t, EmailJobPayload{Subject: "sin destinatario"})))
}

func TestEmailWorker_FalloYBreakerAbierto(t *testing.T) {
	sender := &fakeSender{enabled: true, err: errors.New("535 authentication failed")}
	w := NewEmailWorker(sender, newBreaker())
	job := payload(t, EmailJobPayload{To: "a@muni.cl"})

	assert.EqualError(t, w.Process(context.Background(), job), "535 authentication failed")
	assert.Error(t, w.Process(context.Background(), job))

	// two failures opened the breaker: the sender is no longer called
	sender.err = nil
	assert.ErrorIs(t, w.Process(context.Background(), job), infra.ErrBreakerOpen)
	assert.Empty(t, sender.sent)
}
