package domain

import (
	"context"
	"errors"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")

	// Conectividad: el almacén no responde o nunca se abrió. Las lecturas degradan a vacío;
	// las escrituras devuelven este error para que el llamador muestre el estado degradado.
	ErrStoreUnavailable = errors.New("almacén de datos no disponible")

	// Configuración: fatales para la operación intentada, nunca se ignoran.
	ErrMissingResolverURL  = errors.New("RESOLVER_BASE_URL no configurada: no se puede generar un QR rastreable")
	ErrMissingStoreAddress = errors.New("dirección del almacén no configurada")
	ErrUnsupportedDriver   = errors.New("driver de almacén no soportado")
)

// IsConnectivity indica si err es un fallo de conectividad con el almacén. Solo estos bajan el
// indicador de disponibilidad; un error de datos afecta únicamente a la operación que lo produjo.
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
