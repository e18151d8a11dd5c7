package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/lotetracker/internal/domain"
)

// ClassifyError traduce un error de pgx a la taxonomía del dominio:
//
//	SQLSTATE 23505            → domain.ErrDuplicate
//	clases 22 y 23            → domain.ErrInvalidInput (dato rechazado, ej. 22021 byte NUL)
//	clases 08, 53, 57P        → domain.ErrStoreUnavailable
//	conexión, red, timeout    → domain.ErrStoreUnavailable
//
// Cualquier otro error se devuelve sin cambios.
func ClassifyError(err error) error {
	if err == nil || classified(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
		case strings.HasPrefix(pgErr.Code, "22"), strings.HasPrefix(pgErr.Code, "23"):
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return err
	}

	var (
		connErr *pgconn.ConnectError
		netErr  net.Error
	)
	switch {
	case errors.As(err, &connErr), errors.As(err, &netErr), pgconn.Timeout(err),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

func classified(err error) bool {
	return errors.Is(err, domain.ErrStoreUnavailable) || errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrDuplicate)
}
