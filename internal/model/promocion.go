package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Promocion is a bundle of products sold as one unit.
// Precio nil means "consultar precio": the bundle cannot be ordered online.
type Promocion struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Nombre    string           `gorm:"not null"`
	Precio    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Activa    bool             `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []PromocionItem `gorm:"foreignKey:PromocionID"`
}

func (Promocion) TableName() string { return "promociones" }

func (p *Promocion) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PromocionItem is one product inside a bundle. (PromocionID, ProductoID) is unique.
type PromocionItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PromocionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_promocion_producto"`
	ProductoID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_promocion_producto"`
	Cantidad    int       `gorm:"not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PromocionItem) TableName() string { return "promocion_items" }

func (i *PromocionItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
