package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotetracker/internal/application/apptest"
	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

func newIndex(up bool) (*catalog.ValueIndex, *apptest.Store, *apptest.Status) {
	store := apptest.NewStore()
	status := apptest.NewStatus(up)
	return catalog.NewValueIndex(store, store, status, time.Second, zerolog.Nop()), store, status
}

func TestUpsert_Idempotente(t *testing.T) {
	ix, _, _ := newIndex(true)
	ctx := context.Background()

	require.NoError(t, ix.UpsertProduct(ctx, "Cúrcuma"))
	require.NoError(t, ix.UpsertProduct(ctx, "Jengibre"))
	require.NoError(t, ix.UpsertProduct(ctx, "Cúrcuma"))
	require.NoError(t, ix.UpsertSupplier(ctx, "Agro Sur"))

	assert.Equal(t, []string{"Cúrcuma", "Jengibre"}, ix.ListProducts(ctx))
	assert.Equal(t, []string{"Agro Sur"}, ix.ListSuppliers(ctx))
}

func TestOperatorMap_GanaElPrimerCodigo(t *testing.T) {
	ix, store, _ := newIndex(true)
	store.Put(entity.Lot{OperatorName: "Ana", OperatorCode: "A1"})
	store.Put(entity.Lot{OperatorName: "Luis", OperatorCode: "L7"})
	store.Put(entity.Lot{OperatorName: "Ana", OperatorCode: "A2"})
	store.Put(entity.Lot{OperatorName: "Ana", OperatorCode: "A1"})

	ops := ix.OperatorMap(context.Background())
	require.Len(t, ops, 2)
	assert.Equal(t, entity.OperatorEntry{Name: "Ana", Code: "A1", Conflicts: 1}, ops[0])
	assert.Equal(t, entity.OperatorEntry{Name: "Luis", Code: "L7"}, ops[1])

	code, ok := ix.OperatorCode(context.Background(), "Ana")
	assert.True(t, ok)
	assert.Equal(t, "A1", code)

	_, ok = ix.OperatorCode(context.Background(), "Nadie")
	assert.False(t, ok)
}

func TestReduceOperators_IgnoraNombresVacios(t *testing.T) {
	got := catalog.ReduceOperators([]entity.OperatorEntry{
		{Name: "", Code: "X"},
		{Name: "  ", Code: "Y"},
		{Name: "Eva", Code: ""},
		{Name: "Eva", Code: "E1"},
	})
	assert.Equal(t, []entity.OperatorEntry{{Name: "Eva", Code: "", Conflicts: 1}}, got)
}

func TestSeed_OmiteVaciosYCuenta(t *testing.T) {
	ix, _, _ := newIndex(true)
	np, ns, err := ix.Seed(context.Background(),
		[]string{"Cúrcuma", "", "Jengibre", "Cúrcuma"},
		[]string{" ", "Agro Sur"})
	require.NoError(t, err)
	assert.Equal(t, 3, np)
	assert.Equal(t, 1, ns)
	assert.Equal(t, []string{"Cúrcuma", "Jengibre"}, ix.ListProducts(context.Background()))
}

func TestAlmacenCaido_LecturasVaciasEscriturasConError(t *testing.T) {
	ix, store, _ := newIndex(false)
	ctx := context.Background()

	assert.ErrorIs(t, ix.UpsertProduct(ctx, "Cúrcuma"), domain.ErrStoreUnavailable)
	assert.Empty(t, store.Calls)

	products := ix.ListProducts(ctx)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.Empty(t, ix.ListSuppliers(ctx))
	assert.Empty(t, ix.OperatorMap(ctx))
}

func TestFalloEnLlamada_ReportaYDegrada(t *testing.T) {
	ix, store, status := newIndex(true)
	store.Fail = apptest.ErrBoom

	err := ix.UpsertSupplier(context.Background(), "Agro Sur")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.False(t, status.Available())
	assert.Len(t, status.Failures, 1)
}

func TestRechazoDeDatos_NoDegrada(t *testing.T) {
	ix, store, status := newIndex(true)
	store.Fail = apptest.ErrBadData

	err := ix.UpsertProduct(context.Background(), "Cúrcuma\x00")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Empty(t, ix.ListSuppliers(context.Background()))
	assert.Empty(t, ix.OperatorMap(context.Background()))
	assert.True(t, status.Available())
	assert.Empty(t, status.Failures)
}
