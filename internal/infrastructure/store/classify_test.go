package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotetracker/internal/application/apptest"
	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/infrastructure/postgres"
)

// registryOverPostgresErrors arma el registro real sobre un almacén en memoria cuyos
// rechazos llegan como errores de Postgres y pasan por la clasificación del driver.
func registryOverPostgresErrors(t *testing.T) (*traceability.LotRegistry, *apptest.Store, *Status) {
	t.Helper()
	mem := apptest.NewStore()
	mem.Reject = func(lot *entity.Lot) error {
		if strings.ContainsRune(lot.OperatorName, 0) {
			return &pgconn.PgError{
				Severity: "ERROR",
				Code:     "22021",
				Message:  `invalid byte sequence for encoding "UTF8": 0x00`,
			}
		}
		return nil
	}

	status := NewStatus(func(context.Context) error { return nil }, zerolog.Nop())
	require.True(t, status.Check(context.Background(), time.Second))

	h := classify(&Handle{Lots: mem, Catalog: mem, Stats: mem, Status: status}, postgres.ClassifyError)
	index := catalog.NewValueIndex(h.Catalog, h.Lots, status, time.Second, zerolog.Nop())
	registry := traceability.NewLotRegistry(traceability.RegistryDeps{
		Lots:         h.Lots,
		Index:        index,
		Status:       status,
		StoreTimeout: time.Second,
		Logger:       zerolog.Nop(),
	})
	return registry, mem, status
}

func lotInput(operator string) traceability.RegisterInput {
	return traceability.RegisterInput{
		OperatorName: operator,
		OperatorCode: "OP-001",
		ProductType:  "Cúrcuma",
		Quantity:     "100 kg",
		Supplier:     "Agro Sur S.A.",
	}
}

func TestClassify_ByteNulNoBajaElAlmacen(t *testing.T) {
	registry, _, status := registryOverPostgresErrors(t)
	ctx := context.Background()

	stored, err := registry.Register(ctx, lotInput("Juan Pérez"))
	require.NoError(t, err)

	_, err = registry.Register(ctx, lotInput("Juan\x00Pérez"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.True(t, status.Available(), "un registro con datos inválidos no afecta a los demás")

	history := registry.RecentHistory(ctx, 10)
	require.Len(t, history, 1)
	assert.Equal(t, stored.ID, history[0].ID)

	next, err := registry.Register(ctx, lotInput("Ana Gómez"))
	require.NoError(t, err)
	assert.NotEmpty(t, next.ID)
	assert.Len(t, registry.RecentHistory(ctx, 10), 2)
}

func TestClassify_ConexionCaidaSiBajaElAlmacen(t *testing.T) {
	registry, mem, status := registryOverPostgresErrors(t)
	mem.Fail = &pgconn.PgError{Code: "08006", Message: "connection failure"}

	_, err := registry.Register(context.Background(), lotInput("Juan Pérez"))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.False(t, status.Available())
	assert.Empty(t, registry.RecentHistory(context.Background(), 10))
}

func TestClassify_EnvuelveLosTresRepositorios(t *testing.T) {
	mem := apptest.NewStore()
	mem.Fail = &pgconn.PgError{Code: "23505"}
	h := classify(&Handle{Lots: mem, Catalog: mem, Stats: mem}, postgres.ClassifyError)
	ctx := context.Background()

	assert.ErrorIs(t, h.Lots.Create(ctx, &entity.Lot{}), domain.ErrDuplicate)
	assert.ErrorIs(t, h.Catalog.Upsert(ctx, entity.CatalogProducts, "Sal"), domain.ErrDuplicate)
	_, err := h.Stats.CountLots(ctx)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	mem.Fail = nil
	n, err := h.Stats.CountLots(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
