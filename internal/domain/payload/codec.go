// Package payload codifica un lote en el texto que viaja dentro del código QR.
//
// El bloque es legible sin conexión (campos en texto plano) y, al escanearlo con conexión,
// la URL final lleva a la vista en vivo del lote. Orden estricto de líneas:
//
//	Producto: <productType>
//	Cantidad: <quantity>
//	Proveedor: <supplier>
//	Fecha: <date>
//	Operador: <operatorName>
//	Código operador: <operatorCode>
//	---
//	<resolverBaseURL>/lote/<id>
package payload

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

const (
	// Separator divide el bloque legible de la URL resoluble.
	Separator = "---"
	// LotPath segmento de ruta que el enrutador resuelve como detalle de lote.
	LotPath = "/lote/"
	// MaxFieldRunes tope de legibilidad por campo.
	MaxFieldRunes = 64
	// MaxPayloadBytes capacidad en modo byte de un QR versión 40 con corrección nivel H.
	// El texto se codifica en UTF-8, así que el tope es de bytes y no de runas.
	MaxPayloadBytes = 1273
	ellipsis        = "…"
)

var fieldLabels = [...]string{
	"Producto",
	"Cantidad",
	"Proveedor",
	"Fecha",
	"Operador",
	"Código operador",
}

// Encode serializa el lote. Sin resolverBaseURL no se emite un QR que no sea rastreable.
func Encode(lot *entity.Lot, resolverBaseURL string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(resolverBaseURL), "/")
	if base == "" {
		return "", domain.ErrMissingResolverURL
	}
	if lot == nil || strings.TrimSpace(lot.ID) == "" {
		return "", fmt.Errorf("%w: el lote no tiene id asignado", domain.ErrInvalidInput)
	}

	values := [...]string{
		sanitize(lot.ProductType),
		sanitize(lot.Quantity),
		sanitize(lot.Supplier),
		sanitize(lot.Date),
		sanitize(lot.OperatorName),
		sanitize(lot.OperatorCode),
	}

	link := LotURL(base, lot.ID)
	fixed := len(Separator) + 1 + len(link)
	for _, label := range fieldLabels {
		fixed += len(label) + len(": ") + 1
	}
	if fixed > MaxPayloadBytes {
		return "", fmt.Errorf("%w: la URL del lote no cabe en el código QR", domain.ErrInvalidInput)
	}
	fitBudget(values[:], MaxPayloadBytes-fixed)

	var b strings.Builder
	b.Grow(MaxPayloadBytes)
	for i, label := range fieldLabels {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(values[i])
		b.WriteByte('\n')
	}
	b.WriteString(Separator)
	b.WriteByte('\n')
	b.WriteString(link)
	return b.String(), nil
}

// LotURL construye el enlace profundo al lote. base no debe terminar en '/'.
func LotURL(base, id string) string {
	return base + LotPath + url.PathEscape(id)
}

// DecodeID extrae el id del lote desde la URL embebida: el segmento posterior al último '/'.
// El resto del bloque no se interpreta; el id basta para recuperar el registro completo.
func DecodeID(text string) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		p := strings.LastIndex(line, LotPath)
		if p < 0 {
			continue
		}
		rest := line[p+len(LotPath):]
		if cut := strings.IndexAny(rest, "?#"); cut >= 0 {
			rest = rest[:cut]
		}
		rest = strings.TrimRight(rest, "/")
		rest = rest[strings.LastIndex(rest, "/")+1:]
		if rest == "" {
			return "", false
		}
		id, err := url.PathUnescape(rest)
		if err != nil || id == "" {
			return "", false
		}
		return id, true
	}
	return "", false
}

// ArtifactName nombre convencional del PNG exportado: QR-{productType}-{epochSeconds}.png.
func ArtifactName(productType string, at time.Time) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(productType))
	return fmt.Sprintf("QR-%s-%d.png", name, at.Unix())
}

// fitBudget reparte budget bytes entre los valores. Los que caben en su parte equitativa
// se conservan enteros y ceden el sobrante al resto; los demás se cortan en límite de runa.
func fitBudget(values []string, budget int) {
	total := 0
	for _, v := range values {
		total += len(v)
	}
	if total <= budget {
		return
	}
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return len(values[order[a]]) < len(values[order[b]]) })

	remaining := budget
	for n, i := range order {
		share := remaining / (len(order) - n)
		values[i] = truncateBytes(values[i], share)
		remaining -= len(values[i])
	}
}

// truncateBytes corta v para que ocupe como mucho max bytes, elipsis incluida.
func truncateBytes(v string, max int) string {
	if len(v) <= max {
		return v
	}
	limit := max - len(ellipsis)
	if limit < 0 {
		return ""
	}
	end := 0
	for i, r := range v {
		size := utf8.RuneLen(r)
		if i+size > limit {
			break
		}
		end = i + size
	}
	return v[:end] + ellipsis
}

// sanitize deja cada valor en una sola línea y lo trunca a MaxFieldRunes.
func sanitize(v string) string {
	v = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(strings.TrimSpace(v))
	if utf8.RuneCountInString(v) <= MaxFieldRunes {
		return v
	}
	runes := []rune(v)
	return string(runes[:MaxFieldRunes-1]) + ellipsis
}
