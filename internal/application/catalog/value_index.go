// Package catalog mantiene el índice de valores que alimenta el autocompletado:
// productos y proveedores (conjuntos persistidos, solo se agregan) y el mapa de operadores
// (vista calculada desde los lotes).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

// ValueIndex casos de uso del índice de valores.
type ValueIndex struct {
	repo    repository.CatalogRepository
	lots    repository.LotRepository
	status  ports.StoreStatus
	timeout time.Duration
	log     zerolog.Logger
}

// NewValueIndex construye el índice. timeout acota cada llamada al almacén (0 = sin tope).
func NewValueIndex(
	repo repository.CatalogRepository,
	lots repository.LotRepository,
	status ports.StoreStatus,
	timeout time.Duration,
	log zerolog.Logger,
) *ValueIndex {
	return &ValueIndex{
		repo:    repo,
		lots:    lots,
		status:  status,
		timeout: timeout,
		log:     log.With().Str("component", "value_index").Logger(),
	}
}

// UpsertProduct agrega el producto si no existe. Idempotente; no falla por vacío o duplicado.
func (ix *ValueIndex) UpsertProduct(ctx context.Context, name string) error {
	return ix.upsert(ctx, entity.CatalogProducts, name)
}

// UpsertSupplier agrega el proveedor si no existe. Idempotente; no falla por vacío o duplicado.
func (ix *ValueIndex) UpsertSupplier(ctx context.Context, name string) error {
	return ix.upsert(ctx, entity.CatalogSuppliers, name)
}

// ListProducts devuelve los productos en orden de inserción (vacío si el almacén no responde).
func (ix *ValueIndex) ListProducts(ctx context.Context) []string {
	return ix.list(ctx, entity.CatalogProducts)
}

// ListSuppliers devuelve los proveedores en orden de inserción (vacío si el almacén no responde).
func (ix *ValueIndex) ListSuppliers(ctx context.Context) []string {
	return ix.list(ctx, entity.CatalogSuppliers)
}

// OperatorMap recalcula nombre → código reduciendo todos los lotes: gana el primer código visto.
func (ix *ValueIndex) OperatorMap(ctx context.Context) []entity.OperatorEntry {
	if !ix.status.Available() {
		return []entity.OperatorEntry{}
	}
	ctx, cancel := ix.withTimeout(ctx)
	defer cancel()

	pairs, err := ix.lots.ListOperatorPairs(ctx)
	if err != nil {
		_ = ix.storeError("listar operadores", err)
		return []entity.OperatorEntry{}
	}
	return ReduceOperators(pairs)
}

// OperatorCode devuelve el código asociado al nombre en el mapa de operadores.
func (ix *ValueIndex) OperatorCode(ctx context.Context, name string) (string, bool) {
	for _, op := range ix.OperatorMap(ctx) {
		if op.Name == name {
			return op.Code, true
		}
	}
	return "", false
}

// Seed carga en bloque productos y proveedores (idempotente). Devuelve cuántos se enviaron.
func (ix *ValueIndex) Seed(ctx context.Context, products, suppliers []string) (int, int, error) {
	var np, ns int
	for _, p := range products {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := ix.UpsertProduct(ctx, p); err != nil {
			return np, ns, err
		}
		np++
	}
	for _, s := range suppliers {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if err := ix.UpsertSupplier(ctx, s); err != nil {
			return np, ns, err
		}
		ns++
	}
	return np, ns, nil
}

// ReduceOperators agrupa pares (nombre, código) por nombre conservando el primer código visto
// y el orden de primera aparición. Los nombres vacíos se excluyen. Los códigos distintos
// posteriores se cuentan en Conflicts; la reducción es deliberadamente con pérdida.
func ReduceOperators(pairs []entity.OperatorEntry) []entity.OperatorEntry {
	out := make([]entity.OperatorEntry, 0, len(pairs))
	pos := make(map[string]int, len(pairs))
	for _, p := range pairs {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if i, seen := pos[p.Name]; seen {
			if out[i].Code != p.Code {
				out[i].Conflicts++
			}
			continue
		}
		pos[p.Name] = len(out)
		out = append(out, entity.OperatorEntry{Name: p.Name, Code: p.Code})
	}
	return out
}

func (ix *ValueIndex) upsert(ctx context.Context, kind entity.CatalogKind, name string) error {
	if !ix.status.Available() {
		return domain.ErrStoreUnavailable
	}
	ctx, cancel := ix.withTimeout(ctx)
	defer cancel()

	if err := ix.repo.Upsert(ctx, kind, name); err != nil {
		return ix.storeError("upsert "+string(kind), err)
	}
	return nil
}

func (ix *ValueIndex) list(ctx context.Context, kind entity.CatalogKind) []string {
	if !ix.status.Available() {
		return []string{}
	}
	ctx, cancel := ix.withTimeout(ctx)
	defer cancel()

	names, err := ix.repo.List(ctx, kind)
	if err != nil {
		_ = ix.storeError("listar "+string(kind), err)
		return []string{}
	}
	if names == nil {
		return []string{}
	}
	return names
}

// storeError solo degrada el indicador ante errores de conectividad.
func (ix *ValueIndex) storeError(op string, err error) error {
	if !domain.IsConnectivity(err) {
		ix.log.Warn().Err(err).Str("op", op).Msg("el almacén rechazó la operación del índice")
		return err
	}
	ix.log.Error().Err(err).Str("op", op).Msg("operación sobre el índice de valores falló")
	ix.status.ReportFailure(err)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

func (ix *ValueIndex) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ix.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, ix.timeout)
}
