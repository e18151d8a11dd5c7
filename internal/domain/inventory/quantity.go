package inventory

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var leadingNumber = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d+)?`)

// ParseQuantity extrae la magnitud numérica del texto de cantidad ("100 kg", "12,5 litros").
// Toma el primer token separado por espacios y su prefijo numérico; la coma se acepta como
// separador decimal. Nunca falla: si no hay número devuelve cero.
func ParseQuantity(quantity string) decimal.Decimal {
	fields := strings.Fields(quantity)
	if len(fields) == 0 {
		return decimal.Zero
	}
	num := leadingNumber.FindString(fields[0])
	if num == "" {
		return decimal.Zero
	}
	num = strings.Replace(num, ",", ".", 1)
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatQuantity compone el texto mostrado a partir de magnitud y unidad.
func FormatQuantity(amount, unit string) string {
	amount = strings.TrimSpace(amount)
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return amount
	}
	return amount + " " + unit
}
