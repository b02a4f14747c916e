package repository_test

import (
	"context"
	"errors"
	"testing"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"
	"mercadito/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectStockRepository_SqliteUsaBestEffort(t *testing.T) {
	db := newTestDB(t)
	for _, mode := range []string{"auto", "off"} {
		repo := repository.DetectStockRepository(context.Background(), db, mode)
		assert.False(t, repo.Atomic(), mode)
	}
}

func TestBestEffortStock_SetStock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	productos := repository.NewProductoRepository(db)
	repo := repository.NewBestEffortStockRepository(db)
	p := seedProducto(t, productos, "Yerba", 10)

	otro := 99
	got, err := repo.SetStock(ctx, nil, p.ID, 4, &otro)
	require.NoError(t, err, "esperado is ignored without atomic support")
	assert.Equal(t, 4, got.Stock)

	reloaded, err := productos.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Stock)

	_, err = repo.SetStock(ctx, nil, p.ID, -1, nil)
	var ve *domainerr.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = repo.SetStock(ctx, nil, uuid.New(), 1, nil)
	assert.True(t, domainerr.IsNotFound(err))
}

func TestInventario_SobreSqlite(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	productos := repository.NewProductoRepository(db)
	movimientos := repository.NewMovimientoStockRepository(db)
	inv := service.NewInventarioService(productos,
		repository.DetectStockRepository(ctx, db, "auto"), nil, movimientos)
	p := seedProducto(t, productos, "Aceite", 10)

	_, err := inv.AjustarStockDelta(ctx, p.ID, -4, "rotura")
	require.NoError(t, err)
	_, err = inv.AjustarStock(ctx, p.ID, 20, "recuento")
	require.NoError(t, err)

	_, err = inv.AjustarStockDelta(ctx, p.ID, -21, "venta mostrador")
	var ise *domainerr.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 20, ise.Disponible)

	final, err := productos.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, final.Stock)

	movs, err := inv.Movimientos(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movs, 2, "the failed deduction leaves no movement")
	cantidades := map[int]model.MovimientoStock{}
	for _, m := range movs {
		cantidades[m.Cantidad] = m
		assert.Equal(t, model.MovimientoAjusteManual, m.Tipo)
	}
	require.Contains(t, cantidades, -4)
	require.Contains(t, cantidades, 14)
	assert.Equal(t, 10, cantidades[-4].StockAnterior)
	assert.Equal(t, 6, cantidades[14].StockAnterior)
	assert.Equal(t, 20, cantidades[14].StockNuevo)
}
