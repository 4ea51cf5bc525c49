package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // calls pass through
	BreakerOpen                         // calls fail fast
	BreakerHalfOpen                     // probing after the cool-down
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Do while the breaker is open.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// BreakerConfig tunes a Breaker. Zero values take the defaults.
type BreakerConfig struct {
	Name             string
	MaxFallos        int           // consecutive failures that open the breaker (5)
	ExitosParaCerrar int           // consecutive half-open successes that close it (2)
	Enfriamiento     time.Duration // time open before probing (60s)
}

// Breaker guards an unreliable dependency (the SMTP relay) so that a dead
// server does not tie up every email worker on dial timeouts.
type Breaker struct {
	mu      sync.Mutex
	cfg     BreakerConfig
	state   BreakerState
	fallos  int
	exitos  int
	abierto time.Time
	now     func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFallos <= 0 {
		cfg.MaxFallos = 5
	}
	if cfg.ExitosParaCerrar <= 0 {
		cfg.ExitosParaCerrar = 2
	}
	if cfg.Enfriamiento <= 0 {
		cfg.Enfriamiento = 60 * time.Second
	}
	return &Breaker{cfg: cfg, state: BreakerClosed, now: time.Now}
}

// State returns the current state, moving open to half-open once the
// cool-down has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.abierto) >= b.cfg.Enfriamiento {
		b.transition(BreakerHalfOpen)
	}
	return b.state
}

// Do runs fn unless the breaker is open.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.stateLocked() == BreakerOpen {
		b.mu.Unlock()
		return ErrBreakerOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.fallo()
		return err
	}
	b.exito()
	return nil
}

func (b *Breaker) fallo() {
	b.fallos++
	switch b.state {
	case BreakerClosed:
		if b.fallos >= b.cfg.MaxFallos {
			b.abrir()
		}
	case BreakerHalfOpen:
		b.abrir()
	}
}

func (b *Breaker) exito() {
	switch b.state {
	case BreakerClosed:
		b.fallos = 0
	case BreakerHalfOpen:
		b.exitos++
		if b.exitos >= b.cfg.ExitosParaCerrar {
			b.transition(BreakerClosed)
		}
	}
}

func (b *Breaker) abrir() {
	b.abierto = b.now()
	b.transition(BreakerOpen)
}

func (b *Breaker) transition(to BreakerState) {
	if b.state == to {
		return
	}
	log.Warn().Str("breaker", b.cfg.Name).Str("from", b.state.String()).Str("to", to.String()).Msg("circuit breaker state change")
	b.state = to
	b.fallos = 0
	b.exitos = 0
}
