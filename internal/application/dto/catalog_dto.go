package dto

// CatalogListResponse nombres de un conjunto del índice de valores.
type CatalogListResponse struct {
	Items []string `json:"items"`
}

// OperatorDTO entrada del mapa nombre → código de operador.
type OperatorDTO struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	Conflicts int    `json:"conflicts"` // lotes con el mismo nombre y otro código
}

// OperatorListResponse mapa de operadores en orden de primera aparición.
type OperatorListResponse struct {
	Items []OperatorDTO `json:"items"`
}

// SuggestionResponse respuesta de GET /api/suggestions.
type SuggestionResponse struct {
	Field string   `json:"field"`
	Query string   `json:"query"`
	Items []string `json:"items"`
}

// OperatorCodeResponse código propuesto al elegir un operador.
type OperatorCodeResponse struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Found bool   `json:"found"`
}
