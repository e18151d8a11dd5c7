package suggest

import (
	"context"
	"sync"
	"time"
)

// DefaultGracePeriod espera entre la pérdida de foco y el ocultamiento de la lista:
// el clic sobre una sugerencia llega después del blur y debe poder completarse.
const DefaultGracePeriod = 200 * time.Millisecond

// State estado visible del control de autocompletado.
type State int

// Estados del control.
const (
	StateIdle State = iota
	StateShowing
)

func (s State) String() string {
	if s == StateShowing {
		return "showing"
	}
	return "idle"
}

// Timer tarea diferida cancelable.
type Timer interface {
	Stop() bool
}

// Scheduler programa tareas diferidas en un contexto de ejecución auxiliar.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// View instantánea del control tras una transición.
type View struct {
	State State
	Value string
	Items []string
}

// SessionOption configura una Session.
type SessionOption func(*Session)

// WithGracePeriod cambia la espera del ocultamiento diferido.
func WithGracePeriod(d time.Duration) SessionOption {
	return func(s *Session) { s.grace = d }
}

// WithScheduler reemplaza el planificador (tests).
func WithScheduler(sc Scheduler) SessionOption {
	return func(s *Session) { s.sched = sc }
}

// WithOnChange registra el callback de render; se invoca fuera del candado, también
// desde el planificador cuando se aplica el ocultamiento diferido.
func WithOnChange(fn func(View)) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// Session máquina de estados de un campo con autocompletado:
//
//	Idle → Showing  (foco, o consulta no vacía con coincidencias)
//	Showing → Idle  (blur tras el periodo de gracia, selección, o consulta sin coincidencias)
//
// El ocultamiento diferido lleva un número de generación: cualquier evento posterior
// (selección, foco, tecla) lo invalida, y además se intenta detener el temporizador.
type Session struct {
	engine   *Engine
	field    Field
	grace    time.Duration
	sched    Scheduler
	onChange func(View)

	mu      sync.Mutex
	state   State
	value   string
	items   []string
	gen     uint64
	pending Timer
}

// NewSession crea la sesión de un campo.
func NewSession(engine *Engine, field Field, opts ...SessionOption) *Session {
	s := &Session{
		engine: engine,
		field:  field,
		grace:  DefaultGracePeriod,
		sched:  realScheduler{},
		items:  []string{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Focus muestra las primeras opciones del índice (si hay alguna).
func (s *Session) Focus(ctx context.Context) error {
	items, err := s.engine.Suggest(ctx, s.field, "")
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.supersedeLocked()
	s.items = items
	s.state = stateFor(items)
	v := s.viewLocked()
	s.mu.Unlock()
	s.emit(v)
	return nil
}

// Input procesa una pulsación: consulta vacía muestra todo, si no se filtra.
func (s *Session) Input(ctx context.Context, text string) error {
	items, err := s.engine.Suggest(ctx, s.field, text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.supersedeLocked()
	s.value = text
	s.items = items
	s.state = stateFor(items)
	v := s.viewLocked()
	s.mu.Unlock()
	s.emit(v)
	return nil
}

// Blur programa el ocultamiento tras el periodo de gracia.
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	gen := s.gen
	s.pending = s.sched.AfterFunc(s.grace, func() { s.hide(gen) })
}

// Select fija el valor elegido y pasa a Idle de inmediato, anulando el ocultamiento pendiente.
func (s *Session) Select(value string) {
	s.mu.Lock()
	s.supersedeLocked()
	s.value = value
	s.items = []string{}
	s.state = StateIdle
	v := s.viewLocked()
	s.mu.Unlock()
	s.emit(v)
}

// Snapshot devuelve el estado actual.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) hide(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.items = []string{}
	s.state = StateIdle
	v := s.viewLocked()
	s.mu.Unlock()
	s.emit(v)
}

// supersedeLocked invalida cualquier ocultamiento pendiente. Requiere s.mu.
func (s *Session) supersedeLocked() {
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) viewLocked() View {
	items := make([]string, len(s.items))
	copy(items, s.items)
	return View{State: s.state, Value: s.value, Items: items}
}

func (s *Session) emit(v View) {
	if s.onChange != nil {
		s.onChange(v)
	}
}

func stateFor(items []string) State {
	if len(items) > 0 {
		return StateShowing
	}
	return StateIdle
}
