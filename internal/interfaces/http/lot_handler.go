package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotetracker/internal/application/analytics"
	"github.com/jhoicas/lotetracker/internal/application/dto"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/inventory"
)

// LotHandler registro, consulta y artefactos de lotes.
type LotHandler struct {
	registry *traceability.LotRegistry
	qr       *traceability.QRUseCase
	stats    *analytics.StatsUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(registry *traceability.LotRegistry, qr *traceability.QRUseCase, stats *analytics.StatsUseCase) *LotHandler {
	return &LotHandler{registry: registry, qr: qr, stats: stats}
}

// Register godoc
// @Summary      Registrar lote
// @Description  Indexa producto y proveedor, persiste el lote y devuelve el payload del QR.
// @Tags         lotes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.RegisterLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/lotes [post]
func (h *LotHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return writeError(c, err)
	}
	quantity := in.Quantity
	if in.Unit != "" {
		quantity = inventory.FormatQuantity(in.Quantity, in.Unit)
	}

	lot, payload, err := h.qr.RegisterAndEncode(c.UserContext(), traceability.RegisterInput{
		OperatorName: in.OperatorName,
		OperatorCode: in.OperatorCode,
		ProductType:  in.ProductType,
		Quantity:     quantity,
		Supplier:     in.Supplier,
		Date:         in.Date,
	})
	if err != nil {
		// el lote quedó persistido pero sin URL no hay QR rastreable
		if errors.Is(err, domain.ErrMissingResolverURL) && lot != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"code":    "CONFIG",
				"message": err.Error(),
				"lote":    dto.ToLotResponse(lot),
			})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterLotResponse{
		Lot:     *dto.ToLotResponse(lot),
		Payload: payload,
	})
}

// List godoc
// @Summary      Historial reciente
// @Tags         lotes
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(10)
// @Success      200    {object}  dto.LotListResponse
// @Router       /api/lotes [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	limit := traceability.ClampHistoryLimit(c.QueryInt("limit", traceability.DefaultHistoryLimit))
	lots := h.registry.RecentHistory(c.UserContext(), limit)
	out := dto.LotListResponse{Items: make([]dto.LotResponse, 0, len(lots)), Limit: limit}
	for _, l := range lots {
		out.Items = append(out.Items, *dto.ToLotResponse(l))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         lotes
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	lot, err := h.registry.GetByID(c.UserContext(), lotID(c))
	if err != nil {
		return writeError(c, err)
	}
	if lot == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	}
	return c.JSON(dto.ToLotResponse(lot))
}

// Payload godoc
// @Summary      Payload del QR de un lote
// @Tags         lotes
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.PayloadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/payload [get]
func (h *LotHandler) Payload(c *fiber.Ctx) error {
	lot, text, err := h.qr.Payload(c.UserContext(), lotID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PayloadResponse{LotID: lot.ID, Payload: text})
}

// QRImage godoc
// @Summary      Imagen PNG del QR
// @Tags         lotes
// @Produce      png
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/qr.png [get]
func (h *LotHandler) QRImage(c *fiber.Ctx) error {
	png, filename, err := h.qr.RenderPNG(c.UserContext(), lotID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, `inline; filename*=UTF-8''`+url.PathEscape(filename))
	return c.Send(png)
}

// ExportQR godoc
// @Summary      Exportar PNG del QR al destino de artefactos
// @Tags         lotes
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      201  {object}  dto.ArtifactResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/qr/export [post]
func (h *LotHandler) ExportQR(c *fiber.Ctx) error {
	name, location, err := h.qr.Export(c.UserContext(), lotID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ArtifactResponse{Name: name, Location: location})
}

// Label godoc
// @Summary      Etiqueta PDF imprimible
// @Tags         lotes
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lotes/{id}/label.pdf [get]
func (h *LotHandler) Label(c *fiber.Ctx) error {
	pdf, filename, err := h.qr.Label(c.UserContext(), lotID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Detail resuelve el enlace profundo del QR: GET /lote/{id}.
// Id desconocido o mal formado → 404 con {found:false}; nunca 500.
func (h *LotHandler) Detail(c *fiber.Ctx) error {
	lot, _ := h.registry.GetByID(c.UserContext(), lotID(c))
	if lot == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.LotDetailView{Found: false})
	}
	return c.JSON(dto.LotDetailView{
		Found: true,
		Lot:   dto.ToLotResponse(lot),
		Stats: h.stats.Stats(c.UserContext()),
	})
}

// lotID devuelve el parámetro :id ya decodificado (Fiber no decodifica %XX).
func lotID(c *fiber.Ctx) string {
	raw := c.Params("id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
