package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx; los repositorios aceptan cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// catalogTable traduce el tipo de catálogo a su tabla; nunca se interpola texto del usuario.
func catalogTable(kind entity.CatalogKind) (string, error) {
	switch kind {
	case entity.CatalogProducts:
		return "products", nil
	case entity.CatalogSuppliers:
		return "suppliers", nil
	}
	return "", fmt.Errorf("catálogo %q desconocido", kind)
}
