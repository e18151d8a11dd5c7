package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/lotetracker/internal/domain"
)

// ClassifyError traduce un error de SQLite a la taxonomía del dominio. Las restricciones
// violadas y los valores fuera de rango son errores de datos; un archivo bloqueado, ilegible
// o sin espacio es conectividad. Cualquier otro error se devuelve sin cambios.
func ClassifyError(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) ||
		errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	// database/sql no exporta el error de base cerrada
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "sql: database is closed") {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	var sqErr *moderncsqlite.Error
	if !errors.As(err, &sqErr) {
		return err
	}
	switch code := sqErr.Code(); code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			strings.Contains(sqErr.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	case sqlite3.SQLITE_TOOBIG, sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_RANGE:
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_CANTOPEN,
		sqlite3.SQLITE_FULL, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}
