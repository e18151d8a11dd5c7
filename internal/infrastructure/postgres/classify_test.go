package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/lotetracker/internal/domain"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error // nil = sin clasificar
	}{
		{"byte NUL en TEXT", &pgconn.PgError{Code: "22021"}, domain.ErrInvalidInput},
		{"valor demasiado largo", fmt.Errorf("insert lot: %w", &pgconn.PgError{Code: "22001"}), domain.ErrInvalidInput},
		{"not null", &pgconn.PgError{Code: "23502"}, domain.ErrInvalidInput},
		{"único", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicate},
		{"conexión perdida", &pgconn.PgError{Code: "08006"}, domain.ErrStoreUnavailable},
		{"servidor apagándose", &pgconn.PgError{Code: "57P01"}, domain.ErrStoreUnavailable},
		{"sin memoria", &pgconn.PgError{Code: "53200"}, domain.ErrStoreUnavailable},
		{"timeout", fmt.Errorf("list lots: %w", context.DeadlineExceeded), domain.ErrStoreUnavailable},
		{"conexión cortada", io.ErrUnexpectedEOF, domain.ErrStoreUnavailable},
		{"sintaxis", &pgconn.PgError{Code: "42601"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyError(tc.err)
			assert.ErrorIs(t, got, tc.err, "conserva la causa")
			for _, sentinel := range []error{domain.ErrInvalidInput, domain.ErrDuplicate, domain.ErrStoreUnavailable} {
				assert.Equal(t, sentinel == tc.want, errors.Is(got, sentinel), sentinel.Error())
			}
		})
	}
}

func TestClassifyError_DatoInvalidoNoEsConectividad(t *testing.T) {
	err := ClassifyError(&pgconn.PgError{Code: "22021", Message: "invalid byte sequence for encoding \"UTF8\": 0x00"})
	assert.False(t, domain.IsConnectivity(err))
	assert.Nil(t, ClassifyError(nil))
}
