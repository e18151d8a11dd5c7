package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotetracker/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard de existencias.
type DashboardHandler struct {
	uc *analytics.StatsUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.StatsUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Stats godoc
// @Summary      Estadísticas de existencias
// @Description  Total de lotes y suma de cantidad restante por producto (ascendente por nombre).
// @Description  Con el almacén caído responde 200 con el agregado vacío y store_available=false.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.StockAggregate
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.uc.Stats(c.UserContext()))
}
