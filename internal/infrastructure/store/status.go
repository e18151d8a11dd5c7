// Package store abre una vez el almacén configurado y expone sus repositorios junto con
// el indicador de disponibilidad que consultan los casos de uso.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/lotetracker/internal/application/ports"
)

var _ ports.StoreStatus = (*Status)(nil)

// PingFunc comprueba la conectividad con el almacén.
type PingFunc func(ctx context.Context) error

// Status indicador de disponibilidad. Un fallo de conectividad lo baja; solo el monitor
// (un ping exitoso) lo vuelve a subir.
type Status struct {
	up      atomic.Bool
	ping    PingFunc
	log     zerolog.Logger
	mu      sync.Mutex
	onShift []func(up bool)
}

// NewStatus crea el indicador. ping nil = almacén sin dirección, nunca disponible.
func NewStatus(ping PingFunc, log zerolog.Logger) *Status {
	return &Status{ping: ping, log: log.With().Str("component", "store_status").Logger()}
}

// Available indica si el almacén responde.
func (s *Status) Available() bool { return s.up.Load() }

// ReportFailure baja el indicador tras un error de conectividad.
func (s *Status) ReportFailure(err error) {
	if s.up.CompareAndSwap(true, false) {
		s.log.Error().Err(err).Msg("almacén marcado como no disponible")
		s.notify(false)
	}
}

// OnChange registra un observador de cambios de disponibilidad (métricas, health).
func (s *Status) OnChange(fn func(up bool)) {
	s.mu.Lock()
	s.onShift = append(s.onShift, fn)
	s.mu.Unlock()
	fn(s.Available())
}

// Check ejecuta un ping y actualiza el indicador. Devuelve el estado resultante.
func (s *Status) Check(ctx context.Context, timeout time.Duration) bool {
	if s.ping == nil {
		return false
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := s.ping(ctx); err != nil {
		s.ReportFailure(err)
		return false
	}
	if s.up.CompareAndSwap(false, true) {
		s.log.Info().Msg("almacén disponible")
		s.notify(true)
	}
	return true
}

// Monitor hace ping cada interval hasta que ctx se cancela.
func (s *Status) Monitor(ctx context.Context, interval, timeout time.Duration) {
	if s.ping == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx, timeout)
		}
	}
}

func (s *Status) notify(up bool) {
	s.mu.Lock()
	fns := append([]func(bool){}, s.onShift...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(up)
	}
}
