package service

import (
	"context"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemSolicitado is a line as requested by a caller, before pricing.
// PrecioUnitario, when set, replaces the catalog price (manual sales only).
type ItemSolicitado struct {
	Tipo           model.TipoItem
	ID             uuid.UUID
	Cantidad       int
	PrecioUnitario *decimal.Decimal
}

// catalogo prices requested lines against the current catalog.
type catalogo struct {
	productos   repository.ProductoRepository
	promociones repository.PromocionRepository
}

func validarItems(items []ItemSolicitado) error {
	if len(items) == 0 {
		return domainerr.Validation("items", "debe contener al menos un ítem")
	}
	for _, it := range items {
		if it.Cantidad <= 0 {
			return domainerr.Validation("cantidad", "debe ser mayor a cero")
		}
		if it.Tipo != model.TipoProducto && it.Tipo != model.TipoPromocion {
			return domainerr.Validation("tipo", "debe ser producto o promocion")
		}
		if it.PrecioUnitario != nil && it.PrecioUnitario.IsNegative() {
			return domainerr.Validation("precio_unitario", "no puede ser negativo")
		}
	}
	return nil
}

// resolver returns one priced line per item, in request order.
func (c catalogo) resolver(ctx context.Context, items []ItemSolicitado) ([]model.Linea, error) {
	if err := validarItems(items); err != nil {
		return nil, err
	}

	var prodIDs, promoIDs []uuid.UUID
	for _, it := range items {
		if it.Tipo == model.TipoProducto {
			prodIDs = append(prodIDs, it.ID)
		} else {
			promoIDs = append(promoIDs, it.ID)
		}
	}
	productos, err := c.productos.FindByIDs(ctx, prodIDs)
	if err != nil {
		return nil, err
	}
	promociones, err := c.promociones.FindByIDs(ctx, promoIDs)
	if err != nil {
		return nil, err
	}

	lineas := make([]model.Linea, 0, len(items))
	for _, it := range items {
		switch it.Tipo {
		case model.TipoProducto:
			p, ok := productos[it.ID]
			if !ok {
				return nil, domainerr.NotFound("producto", it.ID)
			}
			if !p.Activo {
				return nil, domainerr.Validation("producto", p.Nombre+" no está disponible")
			}
			precio := p.PrecioVigente()
			if it.PrecioUnitario != nil {
				precio = *it.PrecioUnitario
			}
			lineas = append(lineas, model.LineaProducto{
				ProductoID:     p.ID,
				Cantidad:       it.Cantidad,
				PrecioUnitario: precio,
				EnDolares:      p.EnDolares,
			})
		case model.TipoPromocion:
			pr, ok := promociones[it.ID]
			if !ok {
				return nil, domainerr.NotFound("promoción", it.ID)
			}
			if !pr.Activa {
				return nil, domainerr.Validation("promocion", pr.Nombre+" no está disponible")
			}
			var precio decimal.Decimal
			switch {
			case it.PrecioUnitario != nil:
				precio = *it.PrecioUnitario
			case pr.Precio != nil:
				precio = *pr.Precio
			default:
				return nil, domainerr.Validation("promocion", pr.Nombre+": consultar precio")
			}
			lineas = append(lineas, model.LineaPromocion{
				PromocionID:    pr.ID,
				Cantidad:       it.Cantidad,
				PrecioUnitario: precio,
			})
		}
	}
	return lineas, nil
}

// sumarPesos is Σ cantidad × precio over lines in local currency. Dollar
// lines are valued at cotizacion, which must then be positive.
func sumarPesos(lineas []model.Linea, cotizacion decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lineas {
		sub := l.Subtotal()
		if lp, ok := l.(model.LineaProducto); ok && lp.EnDolares {
			if !cotizacion.IsPositive() {
				return decimal.Zero, domainerr.Validation("cotizacion", "no hay cotización registrada para valuar productos en dólares")
			}
			sub = sub.Mul(cotizacion)
		}
		total = total.Add(sub)
	}
	return total, nil
}
