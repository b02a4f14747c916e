package service_test

import (
	"context"
	"testing"
	"time"

	"mercadito/internal/domainerr"
	"mercadito/internal/dto"
	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcularTotal(t *testing.T) {
	prod, promo := uuid.New(), uuid.New()
	v := &model.Venta{
		Cotizacion: decimal.NewFromInt(1000),
		Items: []model.VentaItem{
			{ProductoID: &prod, Cantidad: 2, PrecioUnitario: decimal.RequireFromString("100.50")},
			{PromocionID: &promo, Cantidad: 1, PrecioUnitario: decimal.NewFromInt(300)},
			{ProductoID: &prod, Cantidad: 3, PrecioUnitario: decimal.NewFromInt(2), EnDolares: true},
		},
	}
	assert.Equal(t, "507", service.CalcularTotal(v).String())
	assert.Equal(t, "6501", service.CalcularTotalPesos(v).String())

	assert.True(t, service.CalcularTotal(&model.Venta{}).IsZero())
}

func TestRegistrarVenta_ManualNoTocaStock(t *testing.T) {
	ctx := context.Background()
	e := nuevoEntorno()
	prod := e.producto("Harina", 40, 6)
	fecha := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	override := decimal.NewFromInt(35)
	v, err := e.ventas.RegistrarVenta(ctx, fecha, []service.ItemSolicitado{
		{Tipo: model.TipoProducto, ID: prod.ID, Cantidad: 2, PrecioUnitario: &override},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, fecha, v.Fecha)
	assert.True(t, v.Pagada)
	assert.Nil(t, v.PedidoID)
	assert.True(t, service.CalcularTotal(v).Equal(decimal.NewFromInt(70)))
	assert.True(t, v.Items[0].CostoUnitario.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 6, e.stockDe(prod.ID))
	assert.Empty(t, e.movimientos.movs)
}

func TestRegistrarVenta_EnDolares(t *testing.T) {
	ctx := context.Background()
	e := nuevoEntorno()
	prod := e.producto("Whisky importado", 10, 4)
	prod.EnDolares = true
	prod.Costo = decimal.NewFromInt(6)

	_, err := e.ventas.RegistrarVenta(ctx, time.Time{}, []service.ItemSolicitado{itemProducto(prod.ID, 1)}, false)
	var val *domainerr.ValidationError
	require.ErrorAs(t, err, &val)
	assert.Equal(t, "cotizacion", val.Campo)

	e.cotizacion(1000, ahora.Add(-time.Hour))
	v, err := e.ventas.RegistrarVenta(ctx, time.Time{}, []service.ItemSolicitado{itemProducto(prod.ID, 2)}, false)
	require.NoError(t, err)
	assert.True(t, v.Cotizacion.Equal(decimal.NewFromInt(1000)))
	require.Len(t, v.Items, 1)
	assert.True(t, v.Items[0].EnDolares)
	assert.True(t, v.Items[0].CostoUnitario.Equal(decimal.NewFromInt(6)), "cost stays in the line currency")
	assert.True(t, service.CalcularTotal(v).Equal(decimal.NewFromInt(20)))
	assert.True(t, service.CalcularTotalPesos(v).Equal(decimal.NewFromInt(20000)))
}

func TestRegistrarVenta_CostoDePromocionEnPesos(t *testing.T) {
	ctx := context.Background()
	e := nuevoEntorno()
	e.cotizacion(1000, ahora.Add(-time.Hour))
	local := e.producto("Maní", 100, 10) // costo 50
	importado := e.producto("Aceitunas", 4, 10)
	importado.EnDolares = true
	importado.Costo = decimal.NewFromInt(2)
	combo := e.promocion("Picada", dec(5000),
		model.PromocionItem{ProductoID: local.ID, Cantidad: 2},
		model.PromocionItem{ProductoID: importado.ID, Cantidad: 1},
	)

	v, err := e.ventas.RegistrarVenta(ctx, time.Time{}, []service.ItemSolicitado{itemPromocion(combo.ID, 1)}, true)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.False(t, v.Items[0].EnDolares)
	assert.Equal(t, "2100", v.Items[0].CostoUnitario.String(), "2×50 + 1×2×1000")
	assert.Equal(t, combo.ID, *v.Items[0].PromocionID)
	assert.Nil(t, v.Items[0].ProductoID)
}

func TestVenta_PagadaAnuladaReactivada(t *testing.T) {
	ctx := context.Background()
	e := nuevoEntorno()
	prod := e.producto("Jugo", 25, 10)
	v, err := e.ventas.RegistrarVenta(ctx, time.Time{}, []service.ItemSolicitado{itemProducto(prod.ID, 1)}, false)
	require.NoError(t, err)

	got, err := e.ventas.MarcarPagada(ctx, v.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Pagada)

	got, err = e.ventas.AnularVenta(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.Anulada)

	got, err = e.ventas.ReactivarVenta(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, got.Anulada)
	assert.True(t, got.Pagada)
	assert.Len(t, got.Items, 1, "los ítems no cambian")

	_, err = e.ventas.AnularVenta(ctx, uuid.New())
	assert.True(t, domainerr.IsNotFound(err))
	_, err = e.ventas.MarcarPagada(ctx, uuid.New(), true)
	assert.True(t, domainerr.IsNotFound(err))
}

func TestRegistrarVenta_Validaciones(t *testing.T) {
	ctx := context.Background()
	e := nuevoEntorno()
	prod := e.producto("Agua", 10, 10)
	inactivo := e.producto("Discontinuado", 10, 10)
	inactivo.Activo = false

	var val *domainerr.ValidationError
	_, err := e.ventas.RegistrarVenta(ctx, time.Time{}, nil, false)
	require.ErrorAs(t, err, &val)

	_, err = e.ventas.RegistrarVenta(ctx, time.Time{}, []service.ItemSolicitado{itemProducto(inactivo.ID, 1)}, false)
	require.ErrorAs(t, err, &val)

	neg := decimal.NewFromInt(-1)
	_, err = e.ventas.RegistrarVenta(ctx, time.Time{}, []service.ItemSolicitado{
		{Tipo: model.TipoProducto, ID: prod.ID, Cantidad: 1, PrecioUnitario: &neg},
	}, false)
	require.ErrorAs(t, err, &val)

	_, err = e.ventas.RegistrarVenta(ctx, time.Time{}, []service.ItemSolicitado{
		{Tipo: model.TipoItem("combo"), ID: prod.ID, Cantidad: 1},
	}, false)
	require.ErrorAs(t, err, &val)

	desde := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, _, err = e.ventas.ListarVentas(ctx, dto.VentaFilter{Desde: desde, Hasta: desde})
	require.ErrorAs(t, err, &val)

	assert.Empty(t, e.ventasRepo.ventas)
}
