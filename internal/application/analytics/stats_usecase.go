// Package analytics contiene el motor de agregación del dashboard de trazabilidad.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/lotetracker/internal/application/dto"
	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

// StatsUseCase calcula total de lotes y stock restante por producto.
//
// Fuente de datos: StatsRepository (consultas read-only). Se recalcula en cada llamada.
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	status    ports.StoreStatus
	timeout   time.Duration
	log       zerolog.Logger
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(
	statsRepo repository.StatsRepository,
	status ports.StoreStatus,
	timeout time.Duration,
	log zerolog.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		statsRepo: statsRepo,
		status:    status,
		timeout:   timeout,
		log:       log.With().Str("component", "stats").Logger(),
	}
}

// Stats construye el StockAggregate. Con el almacén caído devuelve el agregado vacío
// con Available=false, nunca un error.
//
// Dos consultas en paralelo:
//  1. CountLots       → TotalLots
//  2. StockByProduct  → ByProduct (ordenado aquí por nombre ascendente)
func (uc *StatsUseCase) Stats(ctx context.Context) *dto.StockAggregate {
	empty := &dto.StockAggregate{ByProduct: []dto.ProductStockDTO{}}
	if !uc.status.Available() {
		return empty
	}
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	type countResult struct {
		n   int
		err error
	}
	type stockResult struct {
		rows []entity.ProductStock
		err  error
	}

	countCh := make(chan countResult, 1)
	stockCh := make(chan stockResult, 1)

	go func() {
		n, err := uc.statsRepo.CountLots(ctx)
		countCh <- countResult{n, err}
	}()
	go func() {
		rows, err := uc.statsRepo.StockByProduct(ctx)
		stockCh <- stockResult{rows, err}
	}()

	count := <-countCh
	stock := <-stockCh

	for _, err := range []error{count.err, stock.err} {
		if err == nil {
			continue
		}
		if !domain.IsConnectivity(err) {
			// Error de datos: el almacén sigue respondiendo, solo falla este agregado.
			uc.log.Warn().Err(err).Msg("dashboard: consulta de estadísticas rechazada")
			empty.Available = uc.status.Available()
			return empty
		}
		uc.log.Error().Err(err).Msg("dashboard: consulta de estadísticas falló, se degrada")
		uc.status.ReportFailure(err)
		return empty
	}

	return &dto.StockAggregate{
		TotalLots: count.n,
		ByProduct: SortedStock(stock.rows),
		Available: true,
	}
}

// SortedStock convierte las filas a DTO ordenadas por nombre de producto ascendente
// (orden lexicográfico de bytes, independiente de la collation del almacén).
func SortedStock(rows []entity.ProductStock) []dto.ProductStockDTO {
	out := make([]dto.ProductStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductStockDTO{ProductType: r.ProductType, Total: r.Remaining})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProductType < out[j].ProductType
	})
	return out
}
