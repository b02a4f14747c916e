package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Gasto is a fixed cost added to the metrics. Deactivated expenses are kept
// for history but excluded from every computation.
type Gasto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Costo       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	Activo      bool            `gorm:"not null"`
	CreatedAt   time.Time
}

func (Gasto) TableName() string { return "gastos" }

func (g *Gasto) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
