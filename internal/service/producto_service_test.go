package service_test

import (
	"context"
	"testing"

	"gestorstock/internal/dto"
	"gestorstock/internal/repository"
	"gestorstock/internal/service"
	"gestorstock/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductoService(t *testing.T) service.ProductoService {
	t.Helper()
	return service.NewProductoService(repository.NewProductoRepository(testutil.NewTestDB(t)))
}

func TestProductoCrear_CalculaPrecioFinal(t *testing.T) {
	svc := newProductoService(t)

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:             "  Mate cocido  ",
		Stock:              12,
		PrecioLista:        dec("100"),
		UtilidadPorcentual: dec("30"),
		CodigoBarras:       ptr("7790001"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Mate cocido", resp.Nombre)
	assert.Equal(t, 12, resp.Stock)
	assert.True(t, resp.PrecioFinal.Equal(dec("130")), "precio_final = %s", resp.PrecioFinal)

	got, err := svc.ObtenerPorID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "7790001", *got.CodigoBarras)
}

func TestProductoCrear_PrecioFinalExplicito(t *testing.T) {
	svc := newProductoService(t)

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Pan",
		PrecioLista: dec("80"),
		PrecioFinal: ptr(dec("99.99")),
	})
	require.NoError(t, err)
	assert.True(t, resp.PrecioFinal.Equal(dec("99.99")))
	assert.Nil(t, resp.CodigoBarras)
}

func TestProductoCrear_Validacion(t *testing.T) {
	svc := newProductoService(t)

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{Nombre: "   "})
	assert.ErrorIs(t, err, service.ErrValidacion)

	_, err = svc.Crear(context.Background(), dto.CrearProductoRequest{Nombre: "A", CodigoBarras: ptr("123")})
	require.NoError(t, err)
	_, err = svc.Crear(context.Background(), dto.CrearProductoRequest{Nombre: "B", CodigoBarras: ptr("123")})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestProductoObtener_NoEncontrado(t *testing.T) {
	svc := newProductoService(t)
	_, err := svc.ObtenerPorID(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}
