package service

import (
	"context"
	"time"

	"mercadito/internal/domainerr"
	"mercadito/internal/dto"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NuevaVenta is the input of the ledger. Line prices are stored verbatim.
// Cotizacion is the rate snapshot, resolved by the caller before its
// transaction opens; zero means no rate is registered.
type NuevaVenta struct {
	Fecha      time.Time
	Lineas     []model.Linea
	Pagada     bool
	PedidoID   *uuid.UUID
	Cotizacion decimal.Decimal
}

// VentaService is the sale ledger. Sales are append-only: after creation
// only the paid and voided flags change.
type VentaService interface {
	// RegistrarVenta prices items against the catalog and records the sale.
	RegistrarVenta(ctx context.Context, fecha time.Time, items []ItemSolicitado, pagada bool) (*model.Venta, error)
	// RegistrarVentaTx records already priced lines inside the caller's transaction.
	RegistrarVentaTx(ctx context.Context, tx *gorm.DB, nv NuevaVenta) (*model.Venta, error)
	// CotizacionVigente is the rate a sale registered now would snapshot,
	// zero when none is registered.
	CotizacionVigente(ctx context.Context) (decimal.Decimal, error)
	MarcarPagada(ctx context.Context, id uuid.UUID, pagada bool) (*model.Venta, error)
	AnularVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	AnularVentaTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ReactivarVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	ListarVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	catalogo     catalogo
	cotizaciones CotizacionService
	ahora        func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	productos repository.ProductoRepository,
	promociones repository.PromocionRepository,
	cotizaciones CotizacionService,
) VentaService {
	return &ventaService{
		repo:         repo,
		catalogo:     catalogo{productos: productos, promociones: promociones},
		cotizaciones: cotizaciones,
		ahora:        time.Now,
	}
}

// CalcularTotal is Σ cantidad × precio_unitario over the sale's items, in
// each line's own currency. It is the only definition of a sale total.
func CalcularTotal(v *model.Venta) decimal.Decimal {
	total := decimal.Zero
	for _, it := range v.Items {
		total = total.Add(it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	return total
}

// CalcularTotalPesos values foreign-currency lines at the sale's own rate snapshot.
func CalcularTotalPesos(v *model.Venta) decimal.Decimal {
	total := decimal.Zero
	for _, it := range v.Items {
		sub := it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		if it.EnDolares {
			sub = sub.Mul(v.Cotizacion)
		}
		total = total.Add(sub)
	}
	return total
}

func (s *ventaService) RegistrarVenta(ctx context.Context, fecha time.Time, items []ItemSolicitado, pagada bool) (*model.Venta, error) {
	lineas, err := s.catalogo.resolver(ctx, items)
	if err != nil {
		return nil, err
	}
	cotizacion, err := s.CotizacionVigente(ctx)
	if err != nil {
		return nil, err
	}
	var venta *model.Venta
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.RegistrarVentaTx(ctx, tx, NuevaVenta{Fecha: fecha, Lineas: lineas, Pagada: pagada, Cotizacion: cotizacion})
		venta = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return venta, nil
}

func (s *ventaService) RegistrarVentaTx(ctx context.Context, tx *gorm.DB, nv NuevaVenta) (*model.Venta, error) {
	if len(nv.Lineas) == 0 {
		return nil, domainerr.Validation("items", "debe contener al menos un ítem")
	}
	for _, l := range nv.Lineas {
		if l.Unidades() <= 0 {
			return nil, domainerr.Validation("cantidad", "debe ser mayor a cero")
		}
	}
	if nv.Fecha.IsZero() {
		nv.Fecha = s.ahora()
	}

	lineas, err := s.conCostos(ctx, tx, nv.Lineas, nv.Cotizacion)
	if err != nil {
		return nil, err
	}

	venta := &model.Venta{
		Fecha:      nv.Fecha,
		Pagada:     nv.Pagada,
		Cotizacion: nv.Cotizacion,
		PedidoID:   nv.PedidoID,
	}
	for _, l := range lineas {
		venta.Items = append(venta.Items, model.NuevoVentaItem(l))
	}
	if err := s.repo.CreateTx(ctx, tx, venta); err != nil {
		return nil, err
	}

	ev := log.Info().Str("venta_id", venta.ID.String()).Str("total", CalcularTotal(venta).String())
	if nv.PedidoID != nil {
		ev = ev.Str("pedido_id", nv.PedidoID.String())
	}
	ev.Msg("venta registrada")
	return venta, nil
}

// CotizacionVigente returns zero when no rate is in force; conCostos rejects
// foreign-currency lines in that case.
func (s *ventaService) CotizacionVigente(ctx context.Context) (decimal.Decimal, error) {
	if s.cotizaciones == nil {
		return decimal.Zero, nil
	}
	c, err := s.cotizaciones.Actual(ctx)
	if domainerr.IsNotFound(err) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return c.Valor, nil
}

// conCostos snapshots unit costs from the catalog. Product line costs stay in
// the line's currency; promotion costs are converted to local currency.
// Reads go through tx so they see, and do not block on, the caller's writes.
func (s *ventaService) conCostos(ctx context.Context, tx *gorm.DB, lineas []model.Linea, cotizacion decimal.Decimal) ([]model.Linea, error) {
	var prodIDs, promoIDs []uuid.UUID
	for _, l := range lineas {
		switch v := l.(type) {
		case model.LineaProducto:
			prodIDs = append(prodIDs, v.ProductoID)
		case model.LineaPromocion:
			promoIDs = append(promoIDs, v.PromocionID)
		}
	}
	promociones, err := s.catalogo.promociones.FindByIDsTx(ctx, tx, promoIDs)
	if err != nil {
		return nil, err
	}
	for _, pr := range promociones {
		for _, it := range pr.Items {
			prodIDs = append(prodIDs, it.ProductoID)
		}
	}
	productos, err := s.catalogo.productos.FindByIDsTx(ctx, tx, prodIDs)
	if err != nil {
		return nil, err
	}

	sinCotizacion := domainerr.Validation("cotizacion", "no hay cotización registrada para valuar productos en dólares")
	out := make([]model.Linea, 0, len(lineas))
	for _, l := range lineas {
		switch v := l.(type) {
		case model.LineaProducto:
			p, ok := productos[v.ProductoID]
			if !ok {
				return nil, domainerr.NotFound("producto", v.ProductoID)
			}
			if (v.EnDolares || p.EnDolares) && !cotizacion.IsPositive() {
				return nil, sinCotizacion
			}
			v.CostoUnitario = convertir(p.Costo, p.EnDolares, v.EnDolares, cotizacion)
			out = append(out, v)
		case model.LineaPromocion:
			pr, ok := promociones[v.PromocionID]
			if !ok {
				return nil, domainerr.NotFound("promoción", v.PromocionID)
			}
			costo := decimal.Zero
			for _, it := range pr.Items {
				p, ok := productos[it.ProductoID]
				if !ok {
					return nil, domainerr.NotFound("producto", it.ProductoID)
				}
				if p.EnDolares && !cotizacion.IsPositive() {
					return nil, sinCotizacion
				}
				unit := convertir(p.Costo, p.EnDolares, false, cotizacion)
				costo = costo.Add(unit.Mul(decimal.NewFromInt(int64(it.Cantidad))))
			}
			v.CostoUnitario = costo
			out = append(out, v)
		}
	}
	return out, nil
}

// convertir moves an amount between currencies. cotizacion must be positive
// whenever the two flags differ.
func convertir(monto decimal.Decimal, desdeDolares, haciaDolares bool, cotizacion decimal.Decimal) decimal.Decimal {
	switch {
	case desdeDolares == haciaDolares:
		return monto
	case desdeDolares:
		return monto.Mul(cotizacion)
	default:
		return monto.DivRound(cotizacion, 2)
	}
}

func (s *ventaService) MarcarPagada(ctx context.Context, id uuid.UUID, pagada bool) (*model.Venta, error) {
	if err := s.repo.UpdatePagada(ctx, id, pagada); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	if err := s.AnularVentaTx(ctx, nil, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// AnularVentaTx is a soft delete. Stock is never touched here.
func (s *ventaService) AnularVentaTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if err := s.repo.UpdateAnuladaTx(ctx, tx, id, true); err != nil {
		return err
	}
	log.Info().Str("venta_id", id.String()).Msg("venta anulada")
	return nil
}

func (s *ventaService) ReactivarVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	if err := s.repo.UpdateAnuladaTx(ctx, nil, id, false); err != nil {
		return nil, err
	}
	log.Info().Str("venta_id", id.String()).Msg("venta reactivada")
	return s.repo.FindByID(ctx, id)
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if !filter.Desde.IsZero() && !filter.Hasta.IsZero() && !filter.Hasta.After(filter.Desde) {
		return nil, 0, domainerr.Validation("hasta", "debe ser posterior a desde")
	}
	return s.repo.List(ctx, filter)
}
