package entity

// Unidades de medida admitidas para la cantidad de un lote (peso, volumen, conteo, empaque).
const (
	UnitKilogram = "kg"
	UnitPound    = "libras"
	UnitLiter    = "litros"
	UnitCount    = "unidades"
	UnitTon      = "toneladas"
	UnitBox      = "cajas"
	UnitSack     = "sacos"
)

// DefaultUnit unidad preseleccionada en el formulario de registro.
const DefaultUnit = UnitKilogram

// Units devuelve las unidades en el orden en que se ofrecen al operador.
func Units() []string {
	return []string{UnitKilogram, UnitPound, UnitLiter, UnitCount, UnitTon, UnitBox, UnitSack}
}

// IsValidUnit indica si u pertenece al conjunto cerrado de unidades.
func IsValidUnit(u string) bool {
	for _, known := range Units() {
		if u == known {
			return true
		}
	}
	return false
}
