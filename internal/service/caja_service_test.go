package service_test

import (
	"context"
	"testing"

	"gestorstock/internal/dto"
	"gestorstock/internal/model"
	"gestorstock/internal/repository"
	"gestorstock/internal/service"
	"gestorstock/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCerrarCaja_SinVentasPendientes(t *testing.T) {
	f := newFixture(t)

	_, err := f.cajas.CerrarCaja(context.Background())

	assert.ErrorIs(t, err, service.ErrNadaParaCerrar)
	assert.Equal(t, "No hay ventas pendientes para cerrar.", err.Error())
	assert.Zero(t, contar(t, f.db, &model.Caja{}))
	assert.Empty(t, f.cierres.ids)
}

func TestCerrarCaja_SumaYCierraTodasLasPendientes(t *testing.T) {
	f := newFixture(t)
	p := testutil.CrearProducto(t, f.db, "Yerba", 10, "100")
	q := testutil.CrearProducto(t, f.db, "Bizcochos", 10, "50.50")

	v1, err := f.ventas.Crear(context.Background(), dto.VentaRequest{
		DescuentoGeneral: dec("5"),
		Detalles: []dto.DetalleVentaRequest{{
			IDProducto: ptr(p.ID), Cantidad: 2, DescuentoIndividual: dec("10"),
		}},
	})
	require.NoError(t, err)
	v2 := f.vender(t, model.TipoFacturaB, linea(q.ID, 1))

	caja, err := f.cajas.CerrarCaja(context.Background())
	require.NoError(t, err)

	assert.True(t, caja.TotalRecaudado.Equal(dec("220.50")), "total = %s", caja.TotalRecaudado)
	assert.Equal(t, []uint{caja.ID}, f.cierres.ids)

	for _, id := range []uint{v1.ID, v2.ID} {
		got, err := f.ventas.Obtener(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, model.EstadoCerrada, got.Estado)
		require.NotNil(t, got.Caja)
		assert.Equal(t, caja.ID, *got.Caja)
	}

	// a second cierre has nothing left
	_, err = f.cajas.CerrarCaja(context.Background())
	assert.ErrorIs(t, err, service.ErrNadaParaCerrar)
}

func TestCerrarCaja_SumaExacta(t *testing.T) {
	f := newFixture(t)
	a := testutil.CrearProducto(t, f.db, "A", 10, "0.10")
	b := testutil.CrearProducto(t, f.db, "B", 10, "0.20")
	f.vender(t, "", linea(a.ID, 1))
	f.vender(t, "", linea(b.ID, 1))

	caja, err := f.cajas.CerrarCaja(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.3", caja.TotalRecaudado.String())
}

func TestCerrarCaja_SoloIncluyeLasNuevasPendientes(t *testing.T) {
	f := newFixture(t)
	p := testutil.CrearProducto(t, f.db, "P", 100, "10")
	f.vender(t, "", linea(p.ID, 1))
	primera, err := f.cajas.CerrarCaja(context.Background())
	require.NoError(t, err)

	nueva := f.vender(t, "", linea(p.ID, 3))
	segunda, err := f.cajas.CerrarCaja(context.Background())
	require.NoError(t, err)

	assert.True(t, segunda.TotalRecaudado.Equal(dec("30")))
	ventas, err := f.cajas.VentasPorCaja(context.Background(), segunda.ID)
	require.NoError(t, err)
	require.Len(t, ventas, 1)
	assert.Equal(t, nueva.ID, ventas[0].ID)
	assert.Equal(t, []uint{primera.ID, segunda.ID}, f.cierres.ids)
}

func TestResumenDiario(t *testing.T) {
	f := newFixture(t)
	p := testutil.CrearProducto(t, f.db, "P", 100, "10")
	q := testutil.CrearProducto(t, f.db, "Q", 100, "30.25")

	vacio, err := f.cajas.ResumenDiario(context.Background())
	require.NoError(t, err)
	assert.True(t, vacio.TotalDia.IsZero())

	f.vender(t, model.TipoOrdenCompra, linea(p.ID, 10))
	f.vender(t, model.TipoFacturaB, linea(q.ID, 1))
	f.vender(t, model.TipoOrdenCompra, linea(p.ID, 2))

	resumen, err := f.cajas.ResumenDiario(context.Background())
	require.NoError(t, err)
	assert.True(t, resumen.TotalOrdenesCompra.Equal(dec("120")))
	assert.True(t, resumen.TotalFacturasB.Equal(dec("30.25")))
	assert.True(t, resumen.TotalDia.Equal(dec("150.25")))

	_, err = f.cajas.CerrarCaja(context.Background())
	require.NoError(t, err)
	despues, err := f.cajas.ResumenDiario(context.Background())
	require.NoError(t, err)
	assert.True(t, despues.TotalDia.IsZero(), "settled ventas leave the summary")
}

func TestVentasPorCaja(t *testing.T) {
	f := newFixture(t)
	p := testutil.CrearProducto(t, f.db, "P", 100, "10")
	v1 := f.vender(t, "", linea(p.ID, 1))
	v2 := f.vender(t, "", linea(p.ID, 2))
	caja, err := f.cajas.CerrarCaja(context.Background())
	require.NoError(t, err)

	ventas, err := f.cajas.VentasPorCaja(context.Background(), caja.ID)
	require.NoError(t, err)
	require.Len(t, ventas, 2)
	assert.Equal(t, v1.ID, ventas[0].ID, "ordered by fecha_y_hora ascending")
	assert.Equal(t, v2.ID, ventas[1].ID)
	assert.Len(t, ventas[1].Detalles, 1)

	_, err = f.cajas.VentasPorCaja(context.Background(), caja.ID+1)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestListarCajas_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	p := testutil.CrearProducto(t, f.db, "P", 100, "10")
	var ids []uint
	for i := 0; i < 3; i++ {
		f.vender(t, "", linea(p.ID, 1))
		c, err := f.cajas.CerrarCaja(context.Background())
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	cajas, err := f.cajas.ListarCajas(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, cajas, 2)
	assert.Equal(t, ids[2], cajas[0].ID)
	assert.Equal(t, ids[1], cajas[1].ID)
}

func TestCerrarCaja_SinDispatcher(t *testing.T) {
	f := newFixture(t)
	p := testutil.CrearProducto(t, f.db, "P", 10, "1")
	f.vender(t, "", linea(p.ID, 1))

	cajas := service.NewCajaService(repository.NewCajaRepository(f.db), repository.NewVentaRepository(f.db), nil)
	caja, err := cajas.CerrarCaja(context.Background())
	require.NoError(t, err)
	assert.True(t, caja.TotalRecaudado.Equal(dec("1")))
}
