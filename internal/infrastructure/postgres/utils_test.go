package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insertar: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("conexión rechazada")))
}

func TestCatalogTable(t *testing.T) {
	table, err := catalogTable(entity.CatalogProducts)
	require.NoError(t, err)
	assert.Equal(t, "products", table)

	table, err = catalogTable(entity.CatalogSuppliers)
	require.NoError(t, err)
	assert.Equal(t, "suppliers", table)

	_, err = catalogTable(entity.CatalogKind("operadores"))
	require.Error(t, err)
}

func TestSchema_CreaLasTresTablas(t *testing.T) {
	for _, table := range []string{"lots", "products", "suppliers"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Equal(t, 2, strings.Count(schemaSQL, "name TEXT NOT NULL UNIQUE"))
}
