// Package apptest reúne dobles de prueba en memoria para los puertos de la aplicación.
package apptest

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

var (
	// ErrBoom error de conectividad simulado, ya clasificado por el adaptador.
	ErrBoom = fmt.Errorf("%w: conexión rechazada", domain.ErrStoreUnavailable)
	// ErrBadData rechazo de datos del almacén (p. ej. SQLSTATE 22021, byte NUL en un texto).
	ErrBadData = fmt.Errorf("%w: SQLSTATE 22021", domain.ErrInvalidInput)
)

// Status disponibilidad controlable del almacén.
type Status struct {
	mu       sync.Mutex
	up       bool
	Failures []error
}

// NewStatus crea un estado con la disponibilidad indicada.
func NewStatus(up bool) *Status { return &Status{up: up} }

func (s *Status) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.up
}

func (s *Status) ReportFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.up = false
	s.Failures = append(s.Failures, err)
}

// Store almacén en memoria que implementa los tres repositorios del dominio.
type Store struct {
	mu      sync.Mutex
	lots    []*entity.Lot
	catalog map[entity.CatalogKind][]string
	seq     int64
	Fail    error    // si no es nil, todas las operaciones fallan con este error
	Calls   []string // orden de llamadas de escritura

	// Reject, si devuelve error, hace que Create rechace ese lote sin tocar el resto.
	Reject func(lot *entity.Lot) error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{catalog: map[entity.CatalogKind][]string{}}
}

func (s *Store) Create(_ context.Context, lot *entity.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if s.Reject != nil {
		if err := s.Reject(lot); err != nil {
			return err
		}
	}
	s.seq++
	lot.Seq = s.seq
	lot.ID = fmt.Sprintf("lote-%04d", s.seq)
	cp := *lot
	s.lots = append(s.lots, &cp)
	s.Calls = append(s.Calls, "lot:"+lot.ProductType)
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	for _, l := range s.lots {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]*entity.Lot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]*entity.Lot, 0, limit)
	for i := len(s.lots) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.lots[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) ListOperatorPairs(context.Context) ([]entity.OperatorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := make([]entity.OperatorEntry, 0, len(s.lots))
	for _, l := range s.lots {
		if l.OperatorName == "" {
			continue
		}
		out = append(out, entity.OperatorEntry{Name: l.OperatorName, Code: l.OperatorCode})
	}
	return out, nil
}

func (s *Store) Upsert(_ context.Context, kind entity.CatalogKind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.Calls = append(s.Calls, string(kind)+":"+name)
	for _, n := range s.catalog[kind] {
		if n == name {
			return nil
		}
	}
	s.catalog[kind] = append(s.catalog[kind], name)
	return nil
}

func (s *Store) List(_ context.Context, kind entity.CatalogKind) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return append([]string(nil), s.catalog[kind]...), nil
}

func (s *Store) CountLots(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return 0, s.Fail
	}
	return len(s.lots), nil
}

func (s *Store) StockByProduct(context.Context) ([]entity.ProductStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	idx := map[string]int{}
	var out []entity.ProductStock
	for _, l := range s.lots {
		i, ok := idx[l.ProductType]
		if !ok {
			idx[l.ProductType] = len(out)
			out = append(out, entity.ProductStock{ProductType: l.ProductType, Remaining: decimal.Zero})
			i = len(out) - 1
		}
		out[i].Remaining = out[i].Remaining.Add(l.RemainingQuantity)
	}
	return out, nil
}

// Put agrega un lote ya construido (para preparar escenarios de agregación).
func (s *Store) Put(lot entity.Lot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	lot.Seq = s.seq
	if lot.ID == "" {
		lot.ID = fmt.Sprintf("lote-%04d", s.seq)
	}
	s.lots = append(s.lots, &lot)
}

// Publisher registra los eventos publicados.
type Publisher struct {
	mu     sync.Mutex
	Events []*entity.Lot
	Err    error
}

func (p *Publisher) PublishLotRegistered(_ context.Context, lot *entity.Lot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, lot)
	return p.Err
}

// Metrics contadores en memoria.
type Metrics struct {
	mu          sync.Mutex
	Registered  int
	Suggestions map[string]int
	LastUp      *bool
}

func (m *Metrics) LotRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registered++
}

func (m *Metrics) StoreAvailable(up bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastUp = &up
}

func (m *Metrics) SuggestionServed(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Suggestions == nil {
		m.Suggestions = map[string]int{}
	}
	m.Suggestions[category]++
}
