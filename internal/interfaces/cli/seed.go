package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ReadSeedCSV lee filas tipo,nombre. Una cabecera "tipo,nombre" se ignora; las filas
// vacías también. latin1 decodifica ISO-8859-1 a UTF-8 antes de parsear.
func ReadSeedCSV(r io.Reader, latin1 bool) (products, suppliers []string, err error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 2 {
			return nil, nil, fmt.Errorf("CSV línea %d: se esperaban 2 columnas", line)
		}
		kind := strings.ToLower(strings.TrimSpace(rec[0]))
		name := strings.TrimSpace(rec[1])
		switch kind {
		case "tipo":
			continue
		case "producto", "product":
			products = append(products, name)
		case "proveedor", "supplier":
			suppliers = append(suppliers, name)
		default:
			return nil, nil, fmt.Errorf("CSV línea %d: tipo %q desconocido", line, rec[0])
		}
	}
	return products, suppliers, nil
}
