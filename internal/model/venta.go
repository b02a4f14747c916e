package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venta is an immutable transaction record. Items are never edited after
// creation; only Pagada and Anulada change. There is no stored total: it is
// always recomputed from the items.
//
// Cotizacion is the exchange-rate snapshot current when the sale was created.
// Zero means no snapshot was available (legacy rows or no rate registered).
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Fecha      time.Time       `gorm:"not null;index"`
	Pagada     bool            `gorm:"not null;default:false"`
	Anulada    bool            `gorm:"not null;default:false;index"`
	Cotizacion decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	PedidoID   *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

func (v *Venta) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VentaItem references either a product or a promotion, never both.
// EnDolares and CostoUnitario are snapshots taken when the sale was created.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid;index"`
	PromocionID    *uuid.UUID      `gorm:"type:uuid;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoUnitario  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	EnDolares      bool            `gorm:"not null;default:false"`

	Producto  *Producto  `gorm:"foreignKey:ProductoID"`
	Promocion *Promocion `gorm:"foreignKey:PromocionID"`
}

func (VentaItem) TableName() string { return "venta_items" }

func (i *VentaItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Linea converts the stored row into its closed line variant.
func (i VentaItem) Linea() (Linea, error) {
	switch {
	case i.ProductoID != nil && i.PromocionID == nil:
		return LineaProducto{
			ProductoID:     *i.ProductoID,
			Cantidad:       i.Cantidad,
			PrecioUnitario: i.PrecioUnitario,
			EnDolares:      i.EnDolares,
			CostoUnitario:  i.CostoUnitario,
		}, nil
	case i.PromocionID != nil && i.ProductoID == nil:
		return LineaPromocion{
			PromocionID:    *i.PromocionID,
			Cantidad:       i.Cantidad,
			PrecioUnitario: i.PrecioUnitario,
			CostoUnitario:  i.CostoUnitario,
		}, nil
	}
	return nil, fmt.Errorf("venta_item %s: debe referenciar un producto o una promoción", i.ID)
}

// NuevoVentaItem builds the row stored for a line.
func NuevoVentaItem(l Linea) VentaItem {
	switch v := l.(type) {
	case LineaProducto:
		id := v.ProductoID
		return VentaItem{
			ProductoID:     &id,
			Cantidad:       v.Cantidad,
			PrecioUnitario: v.PrecioUnitario,
			CostoUnitario:  v.CostoUnitario,
			EnDolares:      v.EnDolares,
		}
	case LineaPromocion:
		id := v.PromocionID
		return VentaItem{
			PromocionID:    &id,
			Cantidad:       v.Cantidad,
			PrecioUnitario: v.PrecioUnitario,
			CostoUnitario:  v.CostoUnitario,
		}
	}
	panic(fmt.Sprintf("linea de tipo %T", l))
}
