package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotetracker/internal/application/analytics"
	"github.com/jhoicas/lotetracker/internal/application/apptest"
	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/suggest"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

type sinkStub struct{}

func (sinkStub) Put(_ context.Context, name, _ string, _ []byte) (string, error) {
	return "exports/" + name, nil
}

type pngStub struct{}

func (pngStub) RenderPNG(string, int) ([]byte, error) { return []byte("\x89PNG"), nil }

func newApp(store *apptest.Store, up bool) *App {
	status := apptest.NewStatus(up)
	log := zerolog.Nop()
	index := catalog.NewValueIndex(store, store, status, time.Second, log)
	registry := traceability.NewLotRegistry(traceability.RegistryDeps{
		Lots: store, Index: index, Status: status, StoreTimeout: time.Second, Logger: log,
	})
	return &App{
		Registry: registry,
		QR:       traceability.NewQRUseCase(registry, "https://lotes.example.com", pngStub{}, nil, sinkStub{}),
		Stats:    analytics.NewStatsUseCase(store, status, time.Second, log),
		Index:    index,
		Suggest:  suggest.NewEngine(index, nil),
	}
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(func(context.Context) (*App, error) { return app, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRegister_ImprimePayload(t *testing.T) {
	store := apptest.NewStore()
	out, err := run(t, newApp(store, true), "register",
		"--operator", "Ana", "--code", "OP-1", "--product", "Cúrcuma",
		"--quantity", "100", "--unit", "kg", "--supplier", "Agro Sur", "--date", "2024-05-01")
	require.NoError(t, err)

	assert.Contains(t, out, "Producto: Cúrcuma\nCantidad: 100 kg\n")
	assert.Contains(t, out, "https://lotes.example.com/lote/")
	lots, _ := store.ListRecent(context.Background(), 10)
	require.Len(t, lots, 1)
	assert.Contains(t, out, "Lote registrado: "+lots[0].ID)
}

func TestRegister_CampoFaltanteNoAbreAlmacen(t *testing.T) {
	opened := false
	cmd := NewRootCmd(func(context.Context) (*App, error) {
		opened = true
		return nil, errors.New("no debería abrirse")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"register", "--code", "OP-1", "--product", "Cúrcuma"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nombre del operador")
	assert.False(t, opened)
}

func TestRegister_ProponeCodigoDeOperadorConocido(t *testing.T) {
	store := apptest.NewStore()
	store.Put(entity.Lot{OperatorName: "Ana", OperatorCode: "OP-7", ProductType: "Canela"})
	out, err := run(t, newApp(store, true), "register",
		"--operator", "Ana", "--product", "Cúrcuma", "--quantity", "2", "--supplier", "Finca")
	require.NoError(t, err)
	assert.Contains(t, out, "Código de operador: OP-7")
	assert.Contains(t, out, "Código operador: OP-7\n---\n")
}

func TestGetEHistorial(t *testing.T) {
	store := apptest.NewStore()
	store.Put(entity.Lot{ID: "l-1", ProductType: "Jengibre", Quantity: "3 kg", Supplier: "Finca", Date: "2024-01-01"})
	store.Put(entity.Lot{ID: "l-2", ProductType: "Cúrcuma", Quantity: "5 kg", Supplier: "Agro", Date: "2024-01-02"})
	app := newApp(store, true)

	out, err := run(t, app, "get", "l-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Jengibre")

	_, err = run(t, app, "get", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no encontrado")

	out, err = run(t, app, "history", "-n", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "l-2")
}

func TestStats_AlmacenCaido(t *testing.T) {
	_, err := run(t, newApp(apptest.NewStore(), false), "stats")
	require.ErrorIs(t, err, errStoreDown)
}

func TestSuggest_FiltraYRechazaCampo(t *testing.T) {
	store := apptest.NewStore()
	app := newApp(store, true)
	_, _, err := app.Index.Seed(context.Background(), []string{"Cúrcuma", "Canela", "Jengibre"}, nil)
	require.NoError(t, err)

	out, err := run(t, app, "suggest", "producto", "CA")
	require.NoError(t, err)
	assert.Equal(t, "Canela\n", out)

	_, err = run(t, app, "suggest", "color")
	require.Error(t, err)
}

func TestQRExport_NombreConvencional(t *testing.T) {
	store := apptest.NewStore()
	store.Put(entity.Lot{ID: "l-9", ProductType: "Cúrcuma"})
	out, err := run(t, newApp(store, true), "qr", "export", "l-9")
	require.NoError(t, err)
	assert.Contains(t, out, "Exportado: exports/QR-Cúrcuma-")
}

func TestSuggest_SesionInteractiva(t *testing.T) {
	store := apptest.NewStore()
	app := newApp(store, true)
	app.GracePeriod = 5 * time.Millisecond
	_, _, err := app.Index.Seed(context.Background(), nil, []string{"Agro Sur", "Agrícola Norte", "Finca"})
	require.NoError(t, err)

	cmd := NewRootCmd(func(context.Context) (*App, error) { return app, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("agr\nzzz\nfin\n"))
	cmd.SetArgs([]string{"suggest", "-i", "proveedor"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, strings.Join([]string{
		"  Agro Sur", "  Agrícola Norte", "  Finca", // foco
		"  Agro Sur", "  Agrícola Norte", // "agr"
		"(sin sugerencias)", // "zzz"
		"  Finca",           // "fin"
		"(sin sugerencias)", // fin de entrada: ocultamiento diferido
	}, "\n")+"\n", out.String())
}

func TestSuggest_SeleccionInteractiva(t *testing.T) {
	app := newApp(apptest.NewStore(), true)
	cmd := NewRootCmd(func(context.Context) (*App, error) { return app, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("=Finca La Esperanza\n"))
	cmd.SetArgs([]string{"suggest", "-i", "proveedor"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Seleccionado: Finca La Esperanza")
}
