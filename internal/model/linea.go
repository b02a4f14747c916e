package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Linea is an order or sale line. It has exactly two implementations,
// LineaProducto and LineaPromocion; the unexported method closes the set.
type Linea interface {
	Unidades() int
	Unitario() decimal.Decimal
	Subtotal() decimal.Decimal
	linea()
}

// LineaProducto sells a single catalog product. EnDolares is the product's
// currency flag captured when the line was created.
type LineaProducto struct {
	ProductoID     uuid.UUID
	Cantidad       int
	PrecioUnitario decimal.Decimal
	EnDolares      bool
	CostoUnitario  decimal.Decimal
}

func (l LineaProducto) Unidades() int             { return l.Cantidad }
func (l LineaProducto) Unitario() decimal.Decimal { return l.PrecioUnitario }
func (l LineaProducto) Subtotal() decimal.Decimal {
	return l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}
func (LineaProducto) linea() {}

// LineaPromocion sells a bundle. Bundles are always priced in local currency;
// CostoUnitario is already converted.
type LineaPromocion struct {
	PromocionID    uuid.UUID
	Cantidad       int
	PrecioUnitario decimal.Decimal
	CostoUnitario  decimal.Decimal
}

func (l LineaPromocion) Unidades() int             { return l.Cantidad }
func (l LineaPromocion) Unitario() decimal.Decimal { return l.PrecioUnitario }
func (l LineaPromocion) Subtotal() decimal.Decimal {
	return l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}
func (LineaPromocion) linea() {}
