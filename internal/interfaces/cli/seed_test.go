package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeedCSV_UTF8(t *testing.T) {
	in := "tipo,nombre\nproducto,Cúrcuma\n\nproveedor, Agro Sur S.A.\nproduct,Canela\n"
	products, suppliers, err := ReadSeedCSV(strings.NewReader(in), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cúrcuma", "Canela"}, products)
	assert.Equal(t, []string{"Agro Sur S.A."}, suppliers)
}

func TestReadSeedCSV_Latin1(t *testing.T) {
	// "Cúrcuma" en ISO-8859-1: ú = 0xFA
	in := []byte("producto,C\xfarcuma\nproveedor,Pe\xf1a\n")
	products, suppliers, err := ReadSeedCSV(bytes.NewReader(in), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cúrcuma"}, products)
	assert.Equal(t, []string{"Peña"}, suppliers)
}

func TestReadSeedCSV_Errores(t *testing.T) {
	_, _, err := ReadSeedCSV(strings.NewReader("producto\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 1")

	_, _, err = ReadSeedCSV(strings.NewReader("producto,A\ncolor,rojo\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}
