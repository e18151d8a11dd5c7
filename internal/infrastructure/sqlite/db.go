// Package sqlite almacén local de un solo archivo (modernc.org/sqlite, sin cgo).
// Sirve para operación sin servidor y para las pruebas de repositorio en memoria.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS lots (
    seq                INTEGER PRIMARY KEY AUTOINCREMENT,
    id                 TEXT    NOT NULL UNIQUE,
    operator_name      TEXT    NOT NULL,
    operator_code      TEXT    NOT NULL,
    product_type       TEXT    NOT NULL,
    quantity           TEXT    NOT NULL,
    initial_quantity   TEXT    NOT NULL DEFAULT '0',
    remaining_quantity TEXT    NOT NULL DEFAULT '0',
    supplier           TEXT    NOT NULL,
    status             TEXT    NOT NULL,
    date               TEXT    NOT NULL,
    created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS lots_product_type_idx ON lots (product_type);
CREATE TABLE IF NOT EXISTS products (
    seq  INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS suppliers (
    seq  INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);`

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" crea una base efímera.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %s: %w", path, err)
	}
	// Un solo escritor; además cada conexión a ":memory:" sería una base distinta.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %q: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrar esquema sqlite: %w", err)
	}
	return db, nil
}
