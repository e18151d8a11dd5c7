package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotetracker/internal/application/analytics"
	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/dto"
	"github.com/jhoicas/lotetracker/internal/application/suggest"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry    *traceability.LotRegistry
	QR          *traceability.QRUseCase
	Stats       *analytics.StatsUseCase
	Index       *catalog.ValueIndex
	Suggest     *suggest.Engine
	AppName     string
	StoreDriver string
}

// Router registra las rutas de la API y el enlace profundo de los QR.
func Router(app *fiber.App, deps RouterDeps) {
	lotHandler := NewLotHandler(deps.Registry, deps.QR, deps.Stats)
	dashboardHandler := NewDashboardHandler(deps.Stats)
	catalogHandler := NewCatalogHandler(deps.Index, deps.Suggest)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status:         "ok",
			Service:        deps.AppName,
			StoreDriver:    deps.StoreDriver,
			StoreAvailable: deps.Registry.Available(),
		})
	})

	// Contrato de enrutamiento: el QR apunta aquí.
	app.Get("/lote/:id", lotHandler.Detail)
	app.Get("/dashboard", dashboardHandler.Stats)

	api := app.Group("/api")

	lotes := api.Group("/lotes")
	lotes.Post("/", lotHandler.Register)
	lotes.Get("/", lotHandler.List)
	lotes.Get("/:id", lotHandler.GetByID)
	lotes.Get("/:id/payload", lotHandler.Payload)
	lotes.Get("/:id/qr.png", lotHandler.QRImage)
	lotes.Post("/:id/qr/export", lotHandler.ExportQR)
	lotes.Get("/:id/label.pdf", lotHandler.Label)

	api.Get("/dashboard/stats", dashboardHandler.Stats)

	cat := api.Group("/catalog")
	cat.Get("/products", catalogHandler.Products)
	cat.Get("/suppliers", catalogHandler.Suppliers)
	cat.Get("/operators", catalogHandler.Operators)
	cat.Get("/operators/code", catalogHandler.OperatorCode)
	cat.Get("/units", catalogHandler.Units)

	api.Get("/suggestions", catalogHandler.Suggestions)
}
