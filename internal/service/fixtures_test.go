package service_test

import (
	"context"
	"time"

	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ahora = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

// entorno wires every service over in-memory stubs.
type entorno struct {
	productos   *stubProductoRepo
	stock       *stubStockRepo
	movimientos *stubMovimientoRepo
	promociones *stubPromocionRepo
	ventasRepo  *stubVentaRepo
	pedidosRepo *stubPedidoRepo
	gastosRepo  *stubGastoRepo
	cotRepo     *stubCotizacionRepo

	inventario   service.InventarioService
	ventas       service.VentaService
	pedidos      service.PedidoService
	cotizaciones service.CotizacionService
	reloj        *time.Time
}

func nuevoEntorno(opts ...service.Opcion) *entorno {
	e := &entorno{
		productos:   newStubProductoRepo(),
		movimientos: &stubMovimientoRepo{},
		promociones: newStubPromocionRepo(),
		ventasRepo:  newStubVentaRepo(),
		pedidosRepo: newStubPedidoRepo(),
		gastosRepo:  &stubGastoRepo{},
		cotRepo:     &stubCotizacionRepo{},
	}
	t := ahora
	e.reloj = &t
	e.stock = &stubStockRepo{productos: e.productos, atomic: true}
	e.inventario = service.NewInventarioService(e.productos, e.stock, nil, e.movimientos)
	e.cotizaciones = service.NewCotizacionService(e.cotRepo, nil)
	e.ventas = service.NewVentaService(e.ventasRepo, e.productos, e.promociones, e.cotizaciones)
	opts = append([]service.Opcion{service.ConReloj(func() time.Time { return *e.reloj })}, opts...)
	e.pedidos = service.NewPedidoService(e.pedidosRepo, e.productos, e.promociones, e.inventario, e.ventas, opts...)
	return e
}

func (e *entorno) producto(nombre string, precio int64, stock int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		Costo:       decimal.NewFromInt(precio / 2),
		PrecioVenta: decimal.NewFromInt(precio),
		Stock:       stock,
		Activo:      true,
	}
	e.productos.productos[p.ID] = p
	return p
}

func (e *entorno) promocion(nombre string, precio *decimal.Decimal, items ...model.PromocionItem) *model.Promocion {
	p := &model.Promocion{ID: uuid.New(), Nombre: nombre, Precio: precio, Activa: true}
	for _, it := range items {
		it.ID = uuid.New()
		it.PromocionID = p.ID
		p.Items = append(p.Items, it)
	}
	e.promociones.promos[p.ID] = p
	return p
}

func (e *entorno) cotizacion(valor int64, desde time.Time) {
	_ = e.cotRepo.Create(context.Background(), &model.Cotizacion{Valor: decimal.NewFromInt(valor), VigenteDesde: desde})
}

func (e *entorno) stockDe(id uuid.UUID) int { return e.productos.productos[id].Stock }

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func itemProducto(id uuid.UUID, cantidad int) service.ItemSolicitado {
	return service.ItemSolicitado{Tipo: model.TipoProducto, ID: id, Cantidad: cantidad}
}

func itemPromocion(id uuid.UUID, cantidad int) service.ItemSolicitado {
	return service.ItemSolicitado{Tipo: model.TipoPromocion, ID: id, Cantidad: cantidad}
}

var cliente = service.DatosCliente{Nombre: "Ana Pérez", Telefono: "11-5555-0101", Direccion: "Mitre 123"}
