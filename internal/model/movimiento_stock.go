package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MovimientoAjusteManual  = "ajuste_manual"
	MovimientoEntregaPedido = "entrega_pedido"
)

// MovimientoStock registra cada cambio de stock en un producto.
// Se escribe en la misma transacción que el cambio y nunca se modifica.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(30);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid;index"` // pedido_id when Tipo = entrega_pedido
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
