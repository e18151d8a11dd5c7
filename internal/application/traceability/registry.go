// Package traceability contiene el registro de lotes: alta, consulta por id e historial.
package traceability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/inventory"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

const (
	// DefaultHistoryLimit tamaño del historial reciente si no se indica otro.
	DefaultHistoryLimit = 10
	// MaxHistoryLimit tope del historial; valores mayores se recortan.
	MaxHistoryLimit = 100
)

// RegistryDeps dependencias del registro de lotes. Events y Metrics son opcionales.
type RegistryDeps struct {
	Lots         repository.LotRepository
	Index        *catalog.ValueIndex
	Status       ports.StoreStatus
	Events       ports.LotEventPublisher
	Metrics      ports.LotMetrics
	StoreTimeout time.Duration
	Logger       zerolog.Logger
	Now          func() time.Time
}

// LotRegistry dueño de la entidad Lot. No valida la entrada más allá de los obligatorios:
// el rechazo de campos vacíos con mensaje para el operador ocurre en la frontera (DTO).
type LotRegistry struct {
	lots    repository.LotRepository
	index   *catalog.ValueIndex
	status  ports.StoreStatus
	events  ports.LotEventPublisher
	metrics ports.LotMetrics
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewLotRegistry construye el registro.
func NewLotRegistry(deps RegistryDeps) *LotRegistry {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &LotRegistry{
		lots:    deps.Lots,
		index:   deps.Index,
		status:  deps.Status,
		events:  deps.Events,
		metrics: deps.Metrics,
		timeout: deps.StoreTimeout,
		log:     deps.Logger.With().Str("component", "lot_registry").Logger(),
		now:     now,
	}
}

// RegisterInput campos de alta de un lote, ya validados en la frontera.
type RegisterInput struct {
	OperatorName string
	OperatorCode string
	ProductType  string
	Quantity     string
	Supplier     string
	Date         string // opcional
}

// Available indica si el almacén responde; las vistas lo usan para mostrar estado degradado.
func (r *LotRegistry) Available() bool {
	return r.status.Available()
}

// Register crea el lote: primero actualiza el índice de valores (producto, proveedor),
// luego calcula cantidades, sella estado y fecha, y persiste. Devuelve el lote con su id.
func (r *LotRegistry) Register(ctx context.Context, in RegisterInput) (*entity.Lot, error) {
	if in.OperatorName == "" || in.OperatorCode == "" || in.ProductType == "" ||
		in.Quantity == "" || in.Supplier == "" {
		return nil, domain.ErrInvalidInput
	}
	if !r.status.Available() {
		return nil, domain.ErrStoreUnavailable
	}

	// El índice se escribe antes que el lote; basta consistencia eventual entre ambos.
	if err := r.index.UpsertProduct(ctx, in.ProductType); err != nil {
		r.log.Warn().Err(err).Str("product", in.ProductType).Msg("no se pudo indexar el producto")
	}
	if err := r.index.UpsertSupplier(ctx, in.Supplier); err != nil {
		r.log.Warn().Err(err).Str("supplier", in.Supplier).Msg("no se pudo indexar el proveedor")
	}

	now := r.now()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = now.Format(entity.DateLayout)
	}
	qty := inventory.ParseQuantity(in.Quantity)
	lot := &entity.Lot{
		OperatorName:      in.OperatorName,
		OperatorCode:      in.OperatorCode,
		ProductType:       in.ProductType,
		Quantity:          in.Quantity,
		InitialQuantity:   qty,
		RemainingQuantity: qty,
		Supplier:          in.Supplier,
		Status:            entity.LotStatusStored,
		Date:              date,
		CreatedAt:         now,
	}

	sctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.lots.Create(sctx, lot); err != nil {
		return nil, r.storeError("crear lote", err)
	}

	r.log.Info().
		Str("lote_id", lot.ID).
		Str("product", lot.ProductType).
		Str("quantity", lot.Quantity).
		Msg("lote registrado")

	if r.metrics != nil {
		r.metrics.LotRegistered()
	}
	if r.events != nil {
		if err := r.events.PublishLotRegistered(ctx, lot); err != nil {
			r.log.Warn().Err(err).Str("lote_id", lot.ID).Msg("no se pudo publicar el evento de registro")
		}
	}
	return lot, nil
}

// GetByID obtiene un lote. Devuelve (nil, nil) si no existe, si el id está mal formado
// o si el almacén no está disponible.
func (r *LotRegistry) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	id = strings.TrimSpace(id)
	if id == "" || !r.status.Available() {
		return nil, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	lot, err := r.lots.GetByID(ctx, id)
	if err != nil {
		_ = r.storeError("obtener lote", err)
		return nil, nil
	}
	return lot, nil
}

// RecentHistory devuelve los lotes más recientes por orden de creación (no por la fecha
// indicada por el operador), el más reciente primero.
func (r *LotRegistry) RecentHistory(ctx context.Context, limit int) []*entity.Lot {
	limit = ClampHistoryLimit(limit)
	if !r.status.Available() {
		return []*entity.Lot{}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	list, err := r.lots.ListRecent(ctx, limit)
	if err != nil {
		_ = r.storeError("historial", err)
		return []*entity.Lot{}
	}
	if len(list) > limit {
		list = list[:limit]
	}
	if list == nil {
		return []*entity.Lot{}
	}
	return list
}

// storeError registra el fallo de una llamada al almacén. Solo los errores de conectividad
// degradan el indicador; un error de datos afecta a esa petición y se devuelve tal cual.
func (r *LotRegistry) storeError(op string, err error) error {
	if !domain.IsConnectivity(err) {
		r.log.Warn().Err(err).Str("op", op).Msg("el almacén rechazó la operación")
		return err
	}
	r.log.Error().Err(err).Str("op", op).Msg("operación sobre el almacén falló, se degrada")
	r.status.ReportFailure(err)
	if r.metrics != nil {
		r.metrics.StoreAvailable(r.status.Available())
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

// ClampHistoryLimit normaliza el tamaño pedido del historial: sin valor usa el
// predeterminado y nunca supera MaxHistoryLimit.
func ClampHistoryLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

func (r *LotRegistry) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
