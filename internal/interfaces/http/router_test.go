package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotetracker/internal/application/analytics"
	"github.com/jhoicas/lotetracker/internal/application/apptest"
	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/dto"
	"github.com/jhoicas/lotetracker/internal/application/suggest"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/payload"
)

const resolver = "https://lotes.example.com"

type pngStub struct{}

func (pngStub) RenderPNG(string, int) ([]byte, error) { return []byte("\x89PNG\r\n"), nil }

type labelStub struct{}

func (labelStub) GenerateLotLabel(context.Context, *entity.Lot, string) ([]byte, error) {
	return []byte("%PDF-1.3"), nil
}

type sinkStub struct{}

func (sinkStub) Put(_ context.Context, name, _ string, _ []byte) (string, error) {
	return "exports/" + name, nil
}

type testServer struct {
	app   *fiber.App
	store *apptest.Store
}

func newTestServer(t *testing.T, up bool, resolverURL string) *testServer {
	t.Helper()
	store := apptest.NewStore()
	status := apptest.NewStatus(up)
	log := zerolog.Nop()

	index := catalog.NewValueIndex(store, store, status, time.Second, log)
	registry := traceability.NewLotRegistry(traceability.RegistryDeps{
		Lots: store, Index: index, Status: status, StoreTimeout: time.Second, Logger: log,
	})
	app := fiber.New()
	Router(app, RouterDeps{
		Registry:    registry,
		QR:          traceability.NewQRUseCase(registry, resolverURL, pngStub{}, labelStub{}, sinkStub{}),
		Stats:       analytics.NewStatsUseCase(store, status, time.Second, log),
		Index:       index,
		Suggest:     suggest.NewEngine(index, nil),
		AppName:     "lotetracker",
		StoreDriver: "memory",
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

const validBody = `{"operator_name":"Ana","operator_code":"A1","product_type":"Cúrcuma",
	"quantity":"100","unit":"kg","supplier":"Agro Sur"}`

func TestRegister_Creado(t *testing.T) {
	s := newTestServer(t, true, resolver)
	code, body := s.do(t, "POST", "/api/lotes", validBody)
	require.Equal(t, fiber.StatusCreated, code, string(body))

	var out dto.RegisterLotResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "100 kg", out.Lot.Quantity)
	assert.Equal(t, "Almacenado", out.Lot.Status)
	id, ok := payload.DecodeID(out.Payload)
	require.True(t, ok)
	assert.Equal(t, out.Lot.ID, id)
}

func TestRegister_Validacion(t *testing.T) {
	s := newTestServer(t, true, resolver)

	code, body := s.do(t, "POST", "/api/lotes", `{"operator_name":"Ana"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(body), "VALIDATION")

	code, _ = s.do(t, "POST", "/api/lotes", `{`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body = s.do(t, "POST", "/api/lotes", strings.Replace(validBody, `"kg"`, `"arrobas"`, 1))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(body), "arrobas")
	assert.Empty(t, s.store.Calls)
}

func TestRegister_CaracteresDeControl(t *testing.T) {
	s := newTestServer(t, true, resolver)

	code, body := s.do(t, "POST", "/api/lotes", strings.Replace(validBody, `"Ana"`, `"An\u0000a"`, 1))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(body), "VALIDATION")
	assert.Empty(t, s.store.Calls)

	code, _ = s.do(t, "POST", "/api/lotes", validBody)
	assert.Equal(t, fiber.StatusCreated, code)
	code, body = s.do(t, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), `"store_available":true`)
}

func TestRegister_AlmacenRechazaDatos(t *testing.T) {
	s := newTestServer(t, true, resolver)
	s.store.Reject = func(*entity.Lot) error { return apptest.ErrBadData }

	code, body := s.do(t, "POST", "/api/lotes", validBody)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(body), "VALIDATION")

	s.store.Reject = func(*entity.Lot) error { return fmt.Errorf("%w: id repetido", domain.ErrDuplicate) }
	code, body = s.do(t, "POST", "/api/lotes", validBody)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Contains(t, string(body), "CONFLICT")

	s.store.Reject = nil
	code, _ = s.do(t, "POST", "/api/lotes", validBody)
	assert.Equal(t, fiber.StatusCreated, code)
}

func TestRegister_SinURLDeResolucion(t *testing.T) {
	s := newTestServer(t, true, "")
	code, body := s.do(t, "POST", "/api/lotes", validBody)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Contains(t, string(body), "CONFIG")
	assert.Contains(t, string(body), `"lote"`)
}

func TestRegister_AlmacenCaido(t *testing.T) {
	s := newTestServer(t, false, resolver)
	code, body := s.do(t, "POST", "/api/lotes", validBody)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Contains(t, string(body), "STORE_UNAVAILABLE")

	code, body = s.do(t, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), `"store_available":false`)
}

func TestDeepLink(t *testing.T) {
	s := newTestServer(t, true, resolver)
	_, body := s.do(t, "POST", "/api/lotes", validBody)
	var created dto.RegisterLotResponse
	require.NoError(t, json.Unmarshal(body, &created))

	code, body := s.do(t, "GET", "/lote/"+created.Lot.ID, "")
	require.Equal(t, fiber.StatusOK, code)
	var view dto.LotDetailView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.True(t, view.Found)
	assert.Equal(t, created.Lot.ID, view.Lot.ID)
	require.NotNil(t, view.Stats)
	assert.Equal(t, 1, view.Stats.TotalLots)

	for _, id := range []string{"no-existe", "x%2Fy", "64b7f0c2a1e4d3b2c1a09f8e"} {
		code, body = s.do(t, "GET", "/lote/"+id, "")
		assert.Equal(t, fiber.StatusNotFound, code, id)
		assert.JSONEq(t, `{"found":false}`, string(body))
	}
}

func TestHistorialYArtefactos(t *testing.T) {
	s := newTestServer(t, true, resolver)
	_, body := s.do(t, "POST", "/api/lotes", validBody)
	var created dto.RegisterLotResponse
	require.NoError(t, json.Unmarshal(body, &created))
	id := created.Lot.ID

	code, body := s.do(t, "GET", "/api/lotes?limit=500", "")
	require.Equal(t, fiber.StatusOK, code)
	var list dto.LotListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, traceability.MaxHistoryLimit, list.Limit)
	assert.Len(t, list.Items, 1)

	for q, want := range map[string]int{"0": 10, "-3": 10, "100": 100, "7": 7} {
		_, body = s.do(t, "GET", "/api/lotes?limit="+q, "")
		require.NoError(t, json.Unmarshal(body, &list))
		assert.Equal(t, want, list.Limit, q)
	}

	code, _ = s.do(t, "GET", "/api/lotes/"+id, "")
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = s.do(t, "GET", "/api/lotes/otro", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, body = s.do(t, "GET", "/api/lotes/"+id+"/payload", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), "Producto: Cúrcuma")

	req := httptest.NewRequest("GET", "/api/lotes/"+id+"/qr.png", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "QR-C")

	code, body = s.do(t, "POST", "/api/lotes/"+id+"/qr/export", "")
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Contains(t, string(body), "exports/QR-")

	code, _ = s.do(t, "GET", "/api/lotes/"+id+"/label.pdf", "")
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = s.do(t, "GET", "/api/lotes/otro/payload", "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestDashboardYCatalogo(t *testing.T) {
	s := newTestServer(t, true, resolver)
	s.do(t, "POST", "/api/lotes", validBody)
	s.do(t, "POST", "/api/lotes", strings.Replace(validBody, "Cúrcuma", "Jengibre", 1))

	code, body := s.do(t, "GET", "/api/dashboard/stats", "")
	require.Equal(t, fiber.StatusOK, code)
	var agg dto.StockAggregate
	require.NoError(t, json.Unmarshal(body, &agg))
	assert.Equal(t, 2, agg.TotalLots)
	require.Len(t, agg.ByProduct, 2)
	assert.Equal(t, "Cúrcuma", agg.ByProduct[0].ProductType)

	_, body = s.do(t, "GET", "/api/catalog/products", "")
	assert.JSONEq(t, `{"items":["Cúrcuma","Jengibre"]}`, string(body))

	_, body = s.do(t, "GET", "/api/catalog/operators", "")
	assert.JSONEq(t, `{"items":[{"name":"Ana","code":"A1","conflicts":0}]}`, string(body))

	_, body = s.do(t, "GET", "/api/catalog/operators/code?name=Ana", "")
	assert.JSONEq(t, `{"name":"Ana","code":"A1","found":true}`, string(body))
	_, body = s.do(t, "GET", "/api/catalog/operators/code?name=Luis", "")
	assert.JSONEq(t, `{"name":"Luis","code":"","found":false}`, string(body))

	_, body = s.do(t, "GET", "/api/catalog/units", "")
	assert.Contains(t, string(body), "toneladas")

	_, body = s.do(t, "GET", "/api/suggestions?field=producto&q=JENG", "")
	assert.JSONEq(t, `{"field":"product","query":"JENG","items":["Jengibre"]}`, string(body))

	code, _ = s.do(t, "GET", "/api/suggestions?field=color", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestDashboard_AlmacenCaido(t *testing.T) {
	s := newTestServer(t, false, resolver)
	code, body := s.do(t, "GET", "/dashboard", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"total_lotes":0,"stock_por_producto":[],"store_available":false}`, string(body))
}
