package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func newLot(product, operator, code string, qty int64) *entity.Lot {
	q := decimal.NewFromInt(qty)
	return &entity.Lot{
		OperatorName:      operator,
		OperatorCode:      code,
		ProductType:       product,
		Quantity:          q.String() + " kg",
		InitialQuantity:   q,
		RemainingQuantity: q,
		Supplier:          "Agro Sur",
		Status:            entity.LotStatusStored,
		Date:              "2026-10-15 08:00:00",
	}
}

func TestCreateYGetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	lot := newLot("Cúrcuma", "Ana", "A1", 100)
	require.NoError(t, s.Create(ctx, lot))
	assert.NotEmpty(t, lot.ID)
	assert.EqualValues(t, 1, lot.Seq)
	assert.False(t, lot.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, lot.ProductType, got.ProductType)
	assert.Equal(t, entity.LotStatusStored, got.Status)
	assert.True(t, got.RemainingQuantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, lot.CreatedAt, got.CreatedAt)
}

func TestGetByID_InexistenteOMalFormado(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"no-es-uuid", "6f1c1d0e-8a3b-4c59-9a57-2f7d3f0b9e11"} {
		got, err := s.GetByID(context.Background(), id)
		assert.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestListRecent_OrdenDeInsercion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 12; i++ {
		lot := newLot("P", "Ana", "A1", int64(i))
		require.NoError(t, s.Create(ctx, lot))
		ids = append(ids, lot.ID)
	}

	list, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 10)
	assert.Equal(t, ids[11], list[0].ID)
	assert.Equal(t, ids[2], list[9].ID)
}

func TestCatalog_UpsertIdempotenteYOrden(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, n := range []string{"Jengibre", "Cúrcuma", "Jengibre"} {
		require.NoError(t, s.Upsert(ctx, entity.CatalogProducts, n))
	}
	require.NoError(t, s.Upsert(ctx, entity.CatalogSuppliers, "Agro Sur"))

	products, err := s.List(ctx, entity.CatalogProducts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jengibre", "Cúrcuma"}, products)

	suppliers, err := s.List(ctx, entity.CatalogSuppliers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Agro Sur"}, suppliers)

	assert.Error(t, s.Upsert(ctx, entity.CatalogKind("x"), "y"))
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newLot("A", "Ana", "A1", 10)))
	require.NoError(t, s.Create(ctx, newLot("A", "Ana", "A1", 5)))
	lot := newLot("B", "Luis", "L1", 0)
	lot.RemainingQuantity = decimal.RequireFromString("3.25")
	require.NoError(t, s.Create(ctx, lot))

	n, err := s.CountLots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := s.StockByProduct(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].ProductType)
	assert.True(t, rows[0].Remaining.Equal(decimal.NewFromInt(15)))
	assert.True(t, rows[1].Remaining.Equal(decimal.RequireFromString("3.25")))
}

func TestListOperatorPairs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newLot("A", "Ana", "A1", 1)))
	require.NoError(t, s.Create(ctx, newLot("A", "", "X", 1)))
	require.NoError(t, s.Create(ctx, newLot("A", "Ana", "A2", 1)))

	pairs, err := s.ListOperatorPairs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.OperatorEntry{{Name: "Ana", Code: "A1"}, {Name: "Ana", Code: "A2"}}, pairs)
}
