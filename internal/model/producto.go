package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog entry. Stock is written only through the stock
// repositories; price and cost are read by sales and metrics, never written.
// EnDolares=true means PrecioVenta, PrecioPromocional and Costo are quoted in
// the foreign currency.
type Producto struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Nombre            string           `gorm:"index;not null"`
	Stock             int              `gorm:"not null;default:0"`
	Costo             decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PrecioVenta       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PrecioPromocional *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PromocionActiva   bool             `gorm:"not null;default:false"`
	UnidadMedidaID    *uuid.UUID       `gorm:"type:uuid"`
	EnDolares         bool             `gorm:"not null;default:false"`
	Activo            bool             `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PrecioVigente is the price a new order or sale captures for this product.
func (p *Producto) PrecioVigente() decimal.Decimal {
	if p.PromocionActiva && p.PrecioPromocional != nil {
		return *p.PrecioPromocional
	}
	return p.PrecioVenta
}
