package ports

// StoreStatus expone si el almacén está disponible. Los casos de uso lo consultan antes de
// cada operación y le reportan los fallos de conectividad para degradar a resultados vacíos.
type StoreStatus interface {
	Available() bool
	ReportFailure(err error)
}
