package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

var (
	_ repository.LotRepository     = (*Store)(nil)
	_ repository.CatalogRepository = (*Store)(nil)
	_ repository.StatsRepository   = (*Store)(nil)
)

const lotColumns = `id, seq, operator_name, operator_code, product_type, quantity,
	initial_quantity, remaining_quantity, supplier, status, date, created_at`

// Store implementa los tres repositorios sobre una única base sqlite.
type Store struct {
	db *sql.DB
}

// NewStore envuelve una base ya abierta con Open.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserta el lote asignando id (UUID v4), seq y created_at.
func (s *Store) Create(ctx context.Context, lot *entity.Lot) error {
	id := uuid.NewString()
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO lots (id, operator_name, operator_code, product_type, quantity,
			initial_quantity, remaining_quantity, supplier, status, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, lot.OperatorName, lot.OperatorCode, lot.ProductType, lot.Quantity,
		lot.InitialQuantity.String(), lot.RemainingQuantity.String(),
		lot.Supplier, string(lot.Status), lot.Date, now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert lot seq: %w", err)
	}
	lot.ID = id
	lot.Seq = seq
	lot.CreatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	return nil
}

// GetByID obtiene un lote; ids que no son UUID se tratan como inexistentes.
func (s *Store) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	lot, err := scanLot(s.db.QueryRowContext(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// ListRecent últimos lotes por orden de inserción, el más reciente primero.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*entity.Lot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+lotColumns+` FROM lots ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Lot, 0, limit)
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// ListOperatorPairs (nombre, código) de todos los lotes en orden de inserción.
func (s *Store) ListOperatorPairs(ctx context.Context) ([]entity.OperatorEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT operator_name, operator_code FROM lots WHERE operator_name <> '' ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	defer rows.Close()

	var out []entity.OperatorEntry
	for rows.Next() {
		var op entity.OperatorEntry
		if err := rows.Scan(&op.Name, &op.Code); err != nil {
			return nil, fmt.Errorf("scan operator: %w", err)
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

// Upsert agrega el nombre al catálogo si no existe.
func (s *Store) Upsert(ctx context.Context, kind entity.CatalogKind, name string) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO `+table+` (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

// List nombres del catálogo en orden de inserción.
func (s *Store) List(ctx context.Context, kind entity.CatalogKind) ([]string, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM `+table+` ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// CountLots total de lotes.
func (s *Store) CountLots(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("stats.CountLots: %w", err)
	}
	return n, nil
}

// StockByProduct suma en Go con decimal: SUM() de sqlite pasaría por coma flotante.
func (s *Store) StockByProduct(ctx context.Context) ([]entity.ProductStock, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT product_type, remaining_quantity FROM lots ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("stats.StockByProduct: %w", err)
	}
	defer rows.Close()

	idx := map[string]int{}
	var out []entity.ProductStock
	for rows.Next() {
		var product, raw string
		if err := rows.Scan(&product, &raw); err != nil {
			return nil, fmt.Errorf("stats.StockByProduct scan: %w", err)
		}
		qty, err := decimal.NewFromString(raw)
		if err != nil {
			qty = decimal.Zero
		}
		i, ok := idx[product]
		if !ok {
			i = len(out)
			idx[product] = i
			out = append(out, entity.ProductStock{ProductType: product, Remaining: decimal.Zero})
		}
		out[i].Remaining = out[i].Remaining.Add(qty)
	}
	return out, rows.Err()
}

// Ping verifica la conexión (lo usa el monitor de disponibilidad).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLot(row scanner) (*entity.Lot, error) {
	var (
		l                  entity.Lot
		initial, remaining string
		status             string
		createdMillis      int64
	)
	if err := row.Scan(
		&l.ID, &l.Seq, &l.OperatorName, &l.OperatorCode, &l.ProductType, &l.Quantity,
		&initial, &remaining, &l.Supplier, &status, &l.Date, &createdMillis,
	); err != nil {
		return nil, err
	}
	l.InitialQuantity, _ = decimal.NewFromString(initial)
	l.RemainingQuantity, _ = decimal.NewFromString(remaining)
	l.Status = entity.LotStatus(status)
	l.CreatedAt = time.UnixMilli(createdMillis).UTC()
	return &l, nil
}

func catalogTable(kind entity.CatalogKind) (string, error) {
	switch kind {
	case entity.CatalogProducts:
		return "products", nil
	case entity.CatalogSuppliers:
		return "suppliers", nil
	}
	return "", fmt.Errorf("catálogo %q desconocido", kind)
}
