package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cotizacion is an exchange-rate snapshot: local-currency units per
// foreign-currency unit, valid from VigenteDesde until the next snapshot.
type Cotizacion struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Valor        decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	VigenteDesde time.Time       `gorm:"not null;index"`
	CreatedAt    time.Time
}

func (Cotizacion) TableName() string { return "cotizaciones" }

func (c *Cotizacion) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
