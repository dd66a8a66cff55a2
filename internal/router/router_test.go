package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gestorstock/internal/config"
	"gestorstock/internal/dto"
	"gestorstock/internal/router"
	"gestorstock/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		Env:               "test",
		NombreNegocio:     "Almacen Test",
		PrometheusEnabled: true,
	}
	// no Redis: price cache and async cierre report are disabled
	return &testEnv{db: db, engine: router.New(cfg, db, nil, nil)}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func (e *testEnv) crearProducto(t *testing.T, nombre string, stock int, precio string) dto.ProductoResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/v1/productos", map[string]any{
		"nombre":       nombre,
		"stock":        stock,
		"precio_lista": precio,
		"precio_final": precio,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p dto.ProductoResponse
	decodeJSON(t, w, &p)
	return p
}

func ventaBody(productoID uint, cantidad int) map[string]any {
	return map[string]any{
		"tipo":              "orden_compra",
		"descuento_general": "0",
		"detalles": []map[string]any{
			{"id_producto": productoID, "cantidad": cantidad},
		},
	}
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func TestVentas_CicloCompleto(t *testing.T) {
	env := setupTestEnv(t)
	p := env.crearProducto(t, "Gaseosa 500ml", 20, "250")

	// 1. Create
	w := env.do(t, http.MethodPost, "/v1/ventas", map[string]any{
		"tipo":              "factura_b",
		"descuento_general": "5",
		"detalles": []map[string]any{{
			"id_producto":          p.ID,
			"cantidad":             2,
			"precio_unitario":      "100",
			"descuento_individual": "10",
			"subtotal":             "1",
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"warnings":[]`)
	var venta dto.VentaRegistradaResponse
	decodeJSON(t, w, &venta)
	assert.True(t, venta.ImporteTotal.Equal(decimal.NewFromInt(170)))
	assert.Equal(t, "pendiente", venta.Estado)

	// 2. Read
	w = env.do(t, http.MethodGet, fmt.Sprintf("/v1/ventas/%d", venta.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var leida dto.VentaResponse
	decodeJSON(t, w, &leida)
	require.Len(t, leida.Detalles, 1)
	assert.Equal(t, "Gaseosa 500ml", leida.Detalles[0].Producto.Nombre)

	// 3. Update
	w = env.do(t, http.MethodPut, fmt.Sprintf("/v1/ventas/%d", venta.ID), ventaBody(p.ID, 25))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var actualizada dto.VentaRegistradaResponse
	decodeJSON(t, w, &actualizada)
	assert.Equal(t, []string{"Stock insuficiente para 'Gaseosa 500ml'. Quedó en -5."}, actualizada.Warnings)

	// 4. List
	w = env.do(t, http.MethodGet, "/v1/ventas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lista []dto.VentaResponse
	decodeJSON(t, w, &lista)
	assert.Len(t, lista, 1)

	// 5. Ticket
	w = env.do(t, http.MethodGet, fmt.Sprintf("/v1/ventas/%d/pdf", venta.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// 6. Delete gives the stock back
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/v1/ventas/%d", venta.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 20, testutil.Stock(t, env.db, p.ID))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/v1/ventas/%d", venta.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVentas_Errores(t *testing.T) {
	env := setupTestEnv(t)
	p := env.crearProducto(t, "Agua", 5, "100")

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"sin detalles", http.MethodPost, "/v1/ventas", map[string]any{"detalles": []any{}}, http.StatusUnprocessableEntity},
		{"cantidad cero", http.MethodPost, "/v1/ventas", ventaBody(p.ID, 0), http.StatusUnprocessableEntity},
		{"producto inexistente", http.MethodPost, "/v1/ventas", ventaBody(9999, 1), http.StatusUnprocessableEntity},
		{"tipo invalido", http.MethodPost, "/v1/ventas", map[string]any{
			"tipo":     "remito",
			"detalles": []map[string]any{{"id_producto": p.ID, "cantidad": 1}},
		}, http.StatusUnprocessableEntity},
		{"json roto", http.MethodPost, "/v1/ventas", "no es un objeto", http.StatusBadRequest},
		{"id no numerico", http.MethodGet, "/v1/ventas/abc", nil, http.StatusBadRequest},
		{"venta inexistente", http.MethodGet, "/v1/ventas/999", nil, http.StatusNotFound},
		{"actualizar inexistente", http.MethodPut, "/v1/ventas/999", ventaBody(p.ID, 1), http.StatusNotFound},
		{"eliminar inexistente", http.MethodDelete, "/v1/ventas/999", nil, http.StatusNotFound},
		{"limit fuera de rango", http.MethodGet, "/v1/ventas?limit=1000", nil, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"detail"`)
		})
	}
	assert.Equal(t, 5, testutil.Stock(t, env.db, p.ID))
}

// ── Cajas ────────────────────────────────────────────────────────────────────

func TestCajas_CierreYConsultas(t *testing.T) {
	env := setupTestEnv(t)
	p := env.crearProducto(t, "Vino", 10, "1000")

	w := env.do(t, http.MethodPost, "/v1/cajas/cerrar", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"No hay ventas pendientes para cerrar."}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/v1/ventas", ventaBody(p.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)
	var venta dto.VentaRegistradaResponse
	decodeJSON(t, w, &venta)

	w = env.do(t, http.MethodGet, "/v1/cajas/resumen-diario", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resumen map[string]decimal.Decimal
	decodeJSON(t, w, &resumen)
	assert.True(t, resumen["totalOrdenesCompra"].Equal(decimal.NewFromInt(2000)))
	assert.True(t, resumen["totalFacturasB"].IsZero())
	assert.True(t, resumen["totalDia"].Equal(decimal.NewFromInt(2000)))

	w = env.do(t, http.MethodPost, "/v1/cajas/cerrar", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var caja dto.CajaResponse
	decodeJSON(t, w, &caja)
	assert.True(t, caja.TotalRecaudado.Equal(decimal.NewFromInt(2000)))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/v1/cajas/%d/ventas", caja.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ventas []dto.VentaResponse
	decodeJSON(t, w, &ventas)
	require.Len(t, ventas, 1)
	assert.Equal(t, venta.ID, ventas[0].ID)
	assert.Equal(t, "cerrada", ventas[0].Estado)

	w = env.do(t, http.MethodGet, "/v1/cajas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cajas []dto.CajaResponse
	decodeJSON(t, w, &cajas)
	assert.Len(t, cajas, 1)

	// closed ventas are immutable
	w = env.do(t, http.MethodPut, fmt.Sprintf("/v1/ventas/%d", venta.ID), ventaBody(p.ID, 1))
	assert.Equal(t, http.StatusConflict, w.Code)
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/v1/ventas/%d", venta.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/v1/cajas/999/ventas", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── Productos / precio ───────────────────────────────────────────────────────

func TestProductos_YConsultaDePrecio(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/productos", map[string]any{
		"nombre":              "Queso",
		"stock":               3,
		"precio_lista":        "1000",
		"utilidad_porcentual": "25",
		"codigo_barras":       "7791234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p dto.ProductoResponse
	decodeJSON(t, w, &p)
	assert.True(t, p.PrecioFinal.Equal(decimal.NewFromInt(1250)))

	w = env.do(t, http.MethodGet, "/v1/precio/7791234", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var precio dto.ConsultaPreciosResponse
	decodeJSON(t, w, &precio)
	assert.Equal(t, "Queso", precio.Nombre)
	assert.Equal(t, 3, precio.StockDisponible)

	w = env.do(t, http.MethodGet, "/v1/precio/000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/v1/ventas", ventaBody(p.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/v1/productos/%d/movimientos", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var movs []dto.MovimientoStockResponse
	decodeJSON(t, w, &movs)
	require.Len(t, movs, 1)
	assert.Equal(t, -1, movs[0].Cantidad)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/v1/productos/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &p)
	assert.Equal(t, 2, p.Stock)

	w = env.do(t, http.MethodPost, "/v1/productos", map[string]any{"nombre": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ── Infraestructura ──────────────────────────────────────────────────────────

func TestHealthMetricsYRequestID(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"db":"connected","redis":"disabled"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	w = env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gestorstock_http_request_duration_seconds")
}
