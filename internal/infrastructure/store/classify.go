package store

import (
	"context"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

// ClassifyFunc traduce los errores de un driver a la taxonomía del dominio
// (datos inválidos, duplicado o conectividad).
type ClassifyFunc func(error) error

var (
	_ repository.LotRepository     = classifiedLots{}
	_ repository.CatalogRepository = classifiedCatalog{}
	_ repository.StatsRepository   = classifiedStats{}
)

// classify envuelve los repositorios del handle con la clasificación del driver.
func classify(h *Handle, fn ClassifyFunc) *Handle {
	h.Lots = classifiedLots{next: h.Lots, classify: fn}
	h.Catalog = classifiedCatalog{next: h.Catalog, classify: fn}
	h.Stats = classifiedStats{next: h.Stats, classify: fn}
	return h
}

type classifiedLots struct {
	next     repository.LotRepository
	classify ClassifyFunc
}

func (r classifiedLots) Create(ctx context.Context, lot *entity.Lot) error {
	return r.classify(r.next.Create(ctx, lot))
}

func (r classifiedLots) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	lot, err := r.next.GetByID(ctx, id)
	return lot, r.classify(err)
}

func (r classifiedLots) ListRecent(ctx context.Context, limit int) ([]*entity.Lot, error) {
	lots, err := r.next.ListRecent(ctx, limit)
	return lots, r.classify(err)
}

func (r classifiedLots) ListOperatorPairs(ctx context.Context) ([]entity.OperatorEntry, error) {
	pairs, err := r.next.ListOperatorPairs(ctx)
	return pairs, r.classify(err)
}

type classifiedCatalog struct {
	next     repository.CatalogRepository
	classify ClassifyFunc
}

func (r classifiedCatalog) Upsert(ctx context.Context, kind entity.CatalogKind, name string) error {
	return r.classify(r.next.Upsert(ctx, kind, name))
}

func (r classifiedCatalog) List(ctx context.Context, kind entity.CatalogKind) ([]string, error) {
	names, err := r.next.List(ctx, kind)
	return names, r.classify(err)
}

type classifiedStats struct {
	next     repository.StatsRepository
	classify ClassifyFunc
}

func (r classifiedStats) CountLots(ctx context.Context) (int, error) {
	n, err := r.next.CountLots(ctx)
	return n, r.classify(err)
}

func (r classifiedStats) StockByProduct(ctx context.Context) ([]entity.ProductStock, error) {
	rows, err := r.next.StockByProduct(ctx)
	return rows, r.classify(err)
}
