package dto

import "github.com/shopspring/decimal"

// StockAggregate respuesta de GET /api/dashboard/stats.
// Se recalcula en cada consulta; nunca se cachea.
type StockAggregate struct {
	TotalLots int               `json:"total_lotes"`
	ByProduct []ProductStockDTO `json:"stock_por_producto"` // ascendente por producto
	Available bool              `json:"store_available"`
}

// ProductStockDTO suma de cantidad restante de un producto.
type ProductStockDTO struct {
	ProductType string          `json:"producto"`
	Total       decimal.Decimal `json:"cantidad_total"`
}
