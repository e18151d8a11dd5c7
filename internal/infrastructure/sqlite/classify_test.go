package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotetracker/internal/domain"
)

func TestClassifyError_RestriccionesSonDatos(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO products (name) VALUES ('Cúrcuma')`)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO products (name) VALUES ('Cúrcuma')`)
	require.Error(t, err)
	assert.ErrorIs(t, ClassifyError(err), domain.ErrDuplicate)

	_, err = s.db.ExecContext(ctx, `INSERT INTO suppliers (name) VALUES (NULL)`)
	require.Error(t, err)
	classified := ClassifyError(err)
	assert.ErrorIs(t, classified, domain.ErrInvalidInput)
	assert.False(t, domain.IsConnectivity(classified))
}

func TestClassifyError_BaseCerrada(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.db.Close())
	_, err := s.CountLots(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsConnectivity(ClassifyError(err)))

	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err = newTestStore(t).CountLots(expired)
	require.Error(t, err)
	assert.True(t, domain.IsConnectivity(ClassifyError(err)))

	plain := errors.New("scan lot: columna inesperada")
	assert.Equal(t, plain, ClassifyError(plain))
}
