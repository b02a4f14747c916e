package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"mercadito/internal/domainerr"
	"mercadito/internal/dto"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// All stubs return nil from DB(), so runTx calls fn(nil) and nothing is rolled back.

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.FindByIDTx(ctx, nil, id)
}

func (r *stubProductoRepo) FindByIDTx(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, domainerr.NotFound("producto", id)
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error) {
	return r.FindByIDsTx(ctx, nil, ids)
}

func (r *stubProductoRepo) FindByIDsTx(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error) {
	out := make(map[uuid.UUID]model.Producto)
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (r *stubProductoRepo) UpdatePrecios(_ context.Context, id uuid.UUID, venta, costo decimal.Decimal, promocional *decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return domainerr.NotFound("producto", id)
	}
	p.PrecioVenta, p.Costo, p.PrecioPromocional = venta, costo, promocional
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── StockRepository ──────────────────────────────────────────────────────────

type stubStockRepo struct {
	productos *stubProductoRepo
	atomic    bool
	err       error // returned instead of writing when set
	calls     int
}

func (r *stubStockRepo) Atomic() bool { return r.atomic }

func (r *stubStockRepo) SetStock(_ context.Context, _ *gorm.DB, id uuid.UUID, nuevo int, esperado *int) (*model.Producto, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.productos.productos[id]
	if !ok {
		return nil, domainerr.NotFound("producto", id)
	}
	if r.atomic && esperado != nil && p.Stock != *esperado {
		return nil, domainerr.Concurrency("producto", id)
	}
	p.Stock = nuevo
	cp := *p
	return &cp, nil
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── MovimientoStockRepository ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movs []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for i := len(r.movs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movs[i].ProductoID == productoID {
			out = append(out, r.movs[i])
		}
	}
	return out, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── PromocionRepository ──────────────────────────────────────────────────────

type stubPromocionRepo struct {
	promos map[uuid.UUID]*model.Promocion
	writes int
}

func newStubPromocionRepo() *stubPromocionRepo {
	return &stubPromocionRepo{promos: make(map[uuid.UUID]*model.Promocion)}
}

func (r *stubPromocionRepo) Create(_ context.Context, p *model.Promocion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PromocionID = p.ID
	}
	r.promos[p.ID] = p
	return nil
}

func (r *stubPromocionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Promocion, error) {
	p, ok := r.promos[id]
	if !ok {
		return nil, domainerr.NotFound("promoción", id)
	}
	cp := *p
	cp.Items = append([]model.PromocionItem(nil), p.Items...)
	return &cp, nil
}

func (r *stubPromocionRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Promocion, error) {
	return r.FindByIDsTx(ctx, nil, ids)
}

func (r *stubPromocionRepo) FindByIDsTx(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Promocion, error) {
	out := make(map[uuid.UUID]model.Promocion)
	for _, id := range ids {
		if p, ok := r.promos[id]; ok {
			cp := *p
			cp.Items = append([]model.PromocionItem(nil), p.Items...)
			out[id] = cp
		}
	}
	return out, nil
}

func (r *stubPromocionRepo) ListItemsTx(_ context.Context, _ *gorm.DB, promocionID uuid.UUID) ([]model.PromocionItem, error) {
	p, ok := r.promos[promocionID]
	if !ok {
		return nil, nil
	}
	return append([]model.PromocionItem(nil), p.Items...), nil
}

func (r *stubPromocionRepo) CreateItemTx(_ context.Context, _ *gorm.DB, item *model.PromocionItem) error {
	r.writes++
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	p := r.promos[item.PromocionID]
	p.Items = append(p.Items, *item)
	return nil
}

func (r *stubPromocionRepo) UpdateItemCantidadTx(_ context.Context, _ *gorm.DB, itemID uuid.UUID, cantidad int) error {
	r.writes++
	for _, p := range r.promos {
		for i := range p.Items {
			if p.Items[i].ID == itemID {
				p.Items[i].Cantidad = cantidad
				return nil
			}
		}
	}
	return domainerr.NotFound("item de promoción", itemID)
}

func (r *stubPromocionRepo) DeleteItemsTx(_ context.Context, _ *gorm.DB, itemIDs []uuid.UUID) error {
	r.writes++
	borrar := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		borrar[id] = true
	}
	for _, p := range r.promos {
		kept := p.Items[:0]
		for _, it := range p.Items {
			if !borrar[it.ID] {
				kept = append(kept, it)
			}
		}
		p.Items = kept
	}
	return nil
}

func (r *stubPromocionRepo) DB() *gorm.DB { return nil }

var _ repository.PromocionRepository = (*stubPromocionRepo)(nil)

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	orden  []uuid.UUID
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
		v.Items[i].VentaID = v.ID
	}
	r.ventas[v.ID] = v
	r.orden = append(r.orden, v.ID)
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, domainerr.NotFound("venta", id)
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) UpdatePagada(_ context.Context, id uuid.UUID, pagada bool) error {
	v, ok := r.ventas[id]
	if !ok {
		return domainerr.NotFound("venta", id)
	}
	v.Pagada = pagada
	return nil
}

func (r *stubVentaRepo) UpdateAnuladaTx(_ context.Context, _ *gorm.DB, id uuid.UUID, anulada bool) error {
	v, ok := r.ventas[id]
	if !ok {
		return domainerr.NotFound("venta", id)
	}
	v.Anulada = anulada
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.orden))
	for _, id := range r.orden {
		out = append(out, *r.ventas[id])
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) ListRango(_ context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var out []model.Venta
	for _, id := range r.orden {
		v := r.ventas[id]
		if v.Anulada || v.Fecha.Before(desde) || !v.Fecha.Before(hasta) {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── PedidoRepository ─────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
	}
	cp := *p
	cp.Items = append([]model.PedidoItem(nil), p.Items...)
	r.pedidos[p.ID] = &cp
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, domainerr.NotFound("pedido", id)
	}
	cp := *p
	cp.Items = append([]model.PedidoItem(nil), p.Items...)
	return &cp, nil
}

func (r *stubPedidoRepo) UpdateEstadoTx(_ context.Context, _ *gorm.DB, id uuid.UUID, desde, hacia model.EstadoPedido, ventaID *uuid.UUID) error {
	p, ok := r.pedidos[id]
	if !ok || p.Estado != desde {
		return domainerr.Concurrency("pedido", id)
	}
	p.Estado = hacia
	if ventaID != nil {
		p.VentaID = ventaID
	}
	return nil
}

func (r *stubPedidoRepo) sorted(keep func(*model.Pedido) bool) []model.Pedido {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubPedidoRepo) List(_ context.Context, estado model.EstadoPedido) ([]model.Pedido, error) {
	return r.sorted(func(p *model.Pedido) bool { return estado == "" || p.Estado == estado }), nil
}

func (r *stubPedidoRepo) Search(_ context.Context, q string) ([]model.Pedido, error) {
	q = strings.ToLower(q)
	return r.sorted(func(p *model.Pedido) bool {
		return strings.Contains(strings.ToLower(p.ClienteNombre), q) ||
			strings.Contains(strings.ToLower(p.ClienteTelefono), q) ||
			strings.Contains(strings.ToLower(p.ClienteDireccion), q)
	}), nil
}

func (r *stubPedidoRepo) ListRecibidosAntesDe(_ context.Context, t time.Time) ([]model.Pedido, error) {
	return r.sorted(func(p *model.Pedido) bool {
		return p.Estado == model.EstadoRecibido && p.CreatedAt.Before(t)
	}), nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── GastoRepository / CotizacionRepository ───────────────────────────────────

type stubGastoRepo struct {
	gastos []model.Gasto
}

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gastos = append(r.gastos, *g)
	return nil
}

func (r *stubGastoRepo) List(_ context.Context, soloActivos bool) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range r.gastos {
		if !soloActivos || g.Activo {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubGastoRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	for i := range r.gastos {
		if r.gastos[i].ID == id {
			r.gastos[i].Activo = false
			return nil
		}
	}
	return domainerr.NotFound("gasto", id)
}

var _ repository.GastoRepository = (*stubGastoRepo)(nil)

type stubCotizacionRepo struct {
	cots     []model.Cotizacion
	lecturas int // calls to AtOrBefore
}

func (r *stubCotizacionRepo) Create(_ context.Context, c *model.Cotizacion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cots = append(r.cots, *c)
	return nil
}

func (r *stubCotizacionRepo) AtOrBefore(_ context.Context, t time.Time) (*model.Cotizacion, error) {
	r.lecturas++
	var best *model.Cotizacion
	for i := range r.cots {
		c := &r.cots[i]
		if c.VigenteDesde.After(t) {
			continue
		}
		if best == nil || c.VigenteDesde.After(best.VigenteDesde) {
			best = c
		}
	}
	if best == nil {
		return nil, repository.ErrSinCotizacion
	}
	cp := *best
	return &cp, nil
}

var _ repository.CotizacionRepository = (*stubCotizacionRepo)(nil)
