package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/dto"
	"github.com/jhoicas/lotetracker/internal/application/suggest"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// CatalogHandler vistas del índice de valores y autocompletado.
type CatalogHandler struct {
	index  *catalog.ValueIndex
	engine *suggest.Engine
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(index *catalog.ValueIndex, engine *suggest.Engine) *CatalogHandler {
	return &CatalogHandler{index: index, engine: engine}
}

// Products godoc
// @Summary      Productos conocidos
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalog/products [get]
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	return c.JSON(dto.CatalogListResponse{Items: h.index.ListProducts(c.UserContext())})
}

// Suppliers godoc
// @Summary      Proveedores conocidos
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalog/suppliers [get]
func (h *CatalogHandler) Suppliers(c *fiber.Ctx) error {
	return c.JSON(dto.CatalogListResponse{Items: h.index.ListSuppliers(c.UserContext())})
}

// Operators godoc
// @Summary      Mapa de operadores (nombre → primer código visto)
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.OperatorListResponse
// @Router       /api/catalog/operators [get]
func (h *CatalogHandler) Operators(c *fiber.Ctx) error {
	ops := h.index.OperatorMap(c.UserContext())
	out := dto.OperatorListResponse{Items: make([]dto.OperatorDTO, 0, len(ops))}
	for _, op := range ops {
		out.Items = append(out.Items, dto.OperatorDTO{Name: op.Name, Code: op.Code, Conflicts: op.Conflicts})
	}
	return c.JSON(out)
}

// OperatorCode godoc
// @Summary      Código propuesto para un operador
// @Description  Primer código visto para el nombre; found=false si el operador es nuevo.
// @Tags         catalog
// @Produce      json
// @Param        name  query  string  true  "Nombre del operador"
// @Success      200   {object}  dto.OperatorCodeResponse
// @Router       /api/catalog/operators/code [get]
func (h *CatalogHandler) OperatorCode(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	code, found := h.index.OperatorCode(c.UserContext(), name)
	return c.JSON(dto.OperatorCodeResponse{Name: name, Code: code, Found: found})
}

// Units godoc
// @Summary      Unidades de cantidad admitidas
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalog/units [get]
func (h *CatalogHandler) Units(c *fiber.Ctx) error {
	return c.JSON(dto.CatalogListResponse{Items: entity.Units()})
}

// Suggestions godoc
// @Summary      Sugerencias de autocompletado
// @Description  Hasta 8 valores del índice que contienen q (sin distinguir mayúsculas); q vacío = primeros 8.
// @Tags         catalog
// @Produce      json
// @Param        field  query  string  true   "product | supplier | operator | operator_code"
// @Param        q      query  string  false  "Texto escrito"
// @Success      200    {object}  dto.SuggestionResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/suggestions [get]
func (h *CatalogHandler) Suggestions(c *fiber.Ctx) error {
	field, err := suggest.ParseField(c.Query("field"))
	if err != nil {
		return writeError(c, err)
	}
	q := c.Query("q")
	items, err := h.engine.Suggest(c.UserContext(), field, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuggestionResponse{Field: string(field), Query: q, Items: items})
}
