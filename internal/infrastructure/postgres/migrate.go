package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// migrationLockKey clave del advisory lock que serializa la migración entre réplicas.
const migrationLockKey int64 = 0x4c4f5445

// Migrate crea las tablas si no existen. Es idempotente y se ejecuta al abrir el almacén.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrar esquema: %w", err)
	}
	return nil
}

// MigrateLocked aplica Migrate en una transacción que toma pg_advisory_xact_lock: dos
// réplicas que arrancan a la vez no compiten por el CREATE.
func MigrateLocked(ctx context.Context, r *TxRunner) error {
	return r.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockKey); err != nil {
			return fmt.Errorf("lock de migración: %w", err)
		}
		return Migrate(ctx, q)
	})
}
