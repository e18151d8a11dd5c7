package entity

// CatalogKind identifica uno de los conjuntos del índice de valores (sin duplicados, solo se agregan).
type CatalogKind string

// Conjuntos persistidos del índice de valores. El mapa de operadores no se persiste:
// se calcula desde los lotes.
const (
	CatalogProducts  CatalogKind = "products"
	CatalogSuppliers CatalogKind = "suppliers"
)
