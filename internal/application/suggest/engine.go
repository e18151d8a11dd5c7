// Package suggest sirve sugerencias de autocompletado sobre el índice de valores.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// MaxSuggestions tope de sugerencias por consulta.
const MaxSuggestions = 8

// Field categoría del campo que pide sugerencias.
type Field string

// Campos con autocompletado.
const (
	FieldProduct      Field = "product"
	FieldSupplier     Field = "supplier"
	FieldOperator     Field = "operator"
	FieldOperatorCode Field = "operator_code"
)

var fieldAliases = map[string]Field{
	"product":         FieldProduct,
	"producto":        FieldProduct,
	"supplier":        FieldSupplier,
	"proveedor":       FieldSupplier,
	"operator":        FieldOperator,
	"operador":        FieldOperator,
	"operator_code":   FieldOperatorCode,
	"codigo_operador": FieldOperatorCode,
}

// ParseField interpreta el nombre de campo recibido por HTTP o CLI.
func ParseField(s string) (Field, error) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: campo de sugerencias %q desconocido", domain.ErrInvalidInput, s)
	}
	return f, nil
}

// IndexReader vista de lectura del índice de valores (la implementa *catalog.ValueIndex).
type IndexReader interface {
	ListProducts(ctx context.Context) []string
	ListSuppliers(ctx context.Context) []string
	OperatorMap(ctx context.Context) []entity.OperatorEntry
}

// Engine filtra el índice de valores por contención de subcadena.
type Engine struct {
	index   IndexReader
	metrics ports.LotMetrics
}

// NewEngine construye el motor. metrics es opcional.
func NewEngine(index IndexReader, metrics ports.LotMetrics) *Engine {
	return &Engine{index: index, metrics: metrics}
}

// Suggest devuelve hasta MaxSuggestions entradas del campo. Consulta vacía = primeras
// entradas del índice; si no, las que contienen la consulta sin distinguir mayúsculas.
func (e *Engine) Suggest(ctx context.Context, field Field, query string) ([]string, error) {
	options, err := e.Options(ctx, field)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.SuggestionServed(string(field))
	}
	return Filter(options, query, MaxSuggestions), nil
}

// Options devuelve el índice completo del campo en orden estable.
func (e *Engine) Options(ctx context.Context, field Field) ([]string, error) {
	switch field {
	case FieldProduct:
		return e.index.ListProducts(ctx), nil
	case FieldSupplier:
		return e.index.ListSuppliers(ctx), nil
	case FieldOperator, FieldOperatorCode:
		ops := e.index.OperatorMap(ctx)
		out := make([]string, 0, len(ops))
		seen := make(map[string]struct{}, len(ops))
		for _, op := range ops {
			v := op.Name
			if field == FieldOperatorCode {
				v = op.Code
			}
			if _, dup := seen[v]; dup || v == "" {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: campo de sugerencias %q desconocido", domain.ErrInvalidInput, field)
}

// Filter aplica la regla de sugerencias: sin ranking ni coincidencia difusa, se conserva
// el orden del índice y se corta en limit.
func Filter(options []string, query string, limit int) []string {
	out := make([]string, 0, min(len(options), limit))
	if query == "" {
		for _, opt := range options {
			if len(out) == limit {
				break
			}
			out = append(out, opt)
		}
		return out
	}
	lower := cases.Lower(language.Und)
	q := lower.String(query)
	for _, opt := range options {
		if len(out) == limit {
			break
		}
		if strings.Contains(lower.String(opt), q) {
			out = append(out, opt)
		}
	}
	return out
}
