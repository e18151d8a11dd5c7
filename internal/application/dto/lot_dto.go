package dto

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// RegisterLotRequest body para POST /api/lotes.
// Si Unit viene informado, Quantity es solo la magnitud y se compone "<quantity> <unit>".
type RegisterLotRequest struct {
	OperatorName string `json:"operator_name"`
	OperatorCode string `json:"operator_code"`
	ProductType  string `json:"product_type"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit,omitempty"`
	Supplier     string `json:"supplier"`
	Date         string `json:"date,omitempty"` // opcional; vacío = fecha/hora actual
}

// Normalize recorta espacios de todos los campos.
func (r *RegisterLotRequest) Normalize() {
	r.OperatorName = strings.TrimSpace(r.OperatorName)
	r.OperatorCode = strings.TrimSpace(r.OperatorCode)
	r.ProductType = strings.TrimSpace(r.ProductType)
	r.Quantity = strings.TrimSpace(r.Quantity)
	r.Unit = strings.TrimSpace(r.Unit)
	r.Supplier = strings.TrimSpace(r.Supplier)
	r.Date = strings.TrimSpace(r.Date)
}

// Validate rechaza campos obligatorios vacíos, caracteres de control (NUL incluido, que
// ningún almacén de texto acepta) y unidades fuera del catálogo.
// El mensaje es apto para mostrarse al operador tal cual.
func (r *RegisterLotRequest) Validate() error {
	fields := []struct {
		value, label string
		required     bool
	}{
		{r.OperatorName, "el nombre del operador", true},
		{r.OperatorCode, "el código del operador", true},
		{r.ProductType, "el tipo de producto", true},
		{r.Quantity, "la cantidad", true},
		{r.Supplier, "el proveedor", true},
		{r.Unit, "la unidad", false},
		{r.Date, "la fecha", false},
	}
	for _, f := range fields {
		if f.required && f.value == "" {
			return fmt.Errorf("%w: por favor, ingrese %s", domain.ErrInvalidInput, f.label)
		}
		if strings.IndexFunc(f.value, unicode.IsControl) >= 0 {
			return fmt.Errorf("%w: %s contiene caracteres no imprimibles", domain.ErrInvalidInput, f.label)
		}
	}
	if r.Unit != "" && !entity.IsValidUnit(r.Unit) {
		return fmt.Errorf("%w: unidad %q no admitida", domain.ErrInvalidInput, r.Unit)
	}
	return nil
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID                string          `json:"id"`
	OperatorName      string          `json:"operator_name"`
	OperatorCode      string          `json:"operator_code"`
	ProductType       string          `json:"product_type"`
	Quantity          string          `json:"quantity"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Supplier          string          `json:"supplier"`
	Status            string          `json:"status"`
	Date              string          `json:"date"`
	CreatedAt         time.Time       `json:"created_at"`
}

// RegisterLotResponse respuesta de un registro exitoso: el lote y su payload QR.
type RegisterLotResponse struct {
	Lot     LotResponse `json:"lote"`
	Payload string      `json:"payload"`
}

// LotListResponse historial reciente.
type LotListResponse struct {
	Items []LotResponse `json:"items"`
	Limit int           `json:"limit"`
}

// LotDetailView vista de detalle resuelta desde /lote/{id}.
type LotDetailView struct {
	Found bool            `json:"found"`
	Lot   *LotResponse    `json:"lote,omitempty"`
	Stats *StockAggregate `json:"stats,omitempty"`
}

// PayloadResponse texto del QR y su enlace resoluble.
type PayloadResponse struct {
	LotID   string `json:"lote_id"`
	Payload string `json:"payload"`
}

// ArtifactResponse ubicación de un artefacto exportado.
type ArtifactResponse struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// ToLotResponse convierte la entidad en DTO.
func ToLotResponse(l *entity.Lot) *LotResponse {
	if l == nil {
		return nil
	}
	return &LotResponse{
		ID:                l.ID,
		OperatorName:      l.OperatorName,
		OperatorCode:      l.OperatorCode,
		ProductType:       l.ProductType,
		Quantity:          l.Quantity,
		InitialQuantity:   l.InitialQuantity,
		RemainingQuantity: l.RemainingQuantity,
		Supplier:          l.Supplier,
		Status:            string(l.Status),
		Date:              l.Date,
		CreatedAt:         l.CreatedAt,
	}
}
