package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotStatus estado del ciclo de vida de un lote. Hoy solo se produce LotStatusStored;
// el tipo admite valores futuros sin lógica de transición.
type LotStatus string

// Estados de lote.
const (
	LotStatusStored LotStatus = "Almacenado"
)

// DateLayout formato con el que el registro sella la fecha cuando el operador no la envía.
const DateLayout = "2006-01-02 15:04:05"

// Lot representa un lote de producción registrado una sola vez e inspeccionado muchas.
// Las relaciones con producto, proveedor y operador son por nombre (desnormalizadas).
type Lot struct {
	ID                string
	Seq               int64 // orden de inserción; clave del historial
	OperatorName      string
	OperatorCode      string
	ProductType       string
	Quantity          string          // texto mostrado, ej. "100 kg"
	InitialQuantity   decimal.Decimal // primer token numérico de Quantity (0 si no parsea)
	RemainingQuantity decimal.Decimal // inicia igual a InitialQuantity; ninguna operación lo descuenta
	Supplier          string
	Status            LotStatus
	Date              string // fecha indicada por el operador (puede ser retroactiva)
	CreatedAt         time.Time
}

// OperatorEntry par nombre → código del operador, reducido desde los lotes (gana el primero visto).
// Conflicts cuenta los lotes con el mismo nombre y un código distinto; se expone, no se corrige.
type OperatorEntry struct {
	Name      string
	Code      string
	Conflicts int
}

// ProductStock total restante de un producto (fila del agregado del dashboard).
type ProductStock struct {
	ProductType string
	Remaining   decimal.Decimal
}
