package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/lotetracker/internal/domain"
)

// ClassifyError traduce un error del driver a la taxonomía del dominio: clave duplicada y
// documentos rechazados por el servidor son errores de datos; red, timeout y cliente
// desconectado son de conectividad. Cualquier otro error se devuelve sin cambios.
func ClassifyError(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) ||
		errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return err
}
