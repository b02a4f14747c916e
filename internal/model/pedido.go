package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstadoPedido: "recibido" → "aceptado" → "entregado", with "cancelado"
// reachable from the first two. "entregado" and "cancelado" are terminal.
type EstadoPedido string

const (
	EstadoRecibido  EstadoPedido = "recibido"
	EstadoAceptado  EstadoPedido = "aceptado"
	EstadoEntregado EstadoPedido = "entregado"
	EstadoCancelado EstadoPedido = "cancelado"
)

// EstadosPedido lists every state in lifecycle order.
var EstadosPedido = []EstadoPedido{EstadoRecibido, EstadoAceptado, EstadoEntregado, EstadoCancelado}

func (e EstadoPedido) Terminal() bool {
	return e == EstadoEntregado || e == EstadoCancelado
}

func (e EstadoPedido) Valido() bool {
	for _, s := range EstadosPedido {
		if s == e {
			return true
		}
	}
	return false
}

type TipoItem string

const (
	TipoProducto  TipoItem = "producto"
	TipoPromocion TipoItem = "promocion"
)

// Pedido is a customer order. Total is in local currency, with dollar lines
// valued at the rate in force at intake. It is fixed at creation time and
// never recomputed from the catalog.
type Pedido struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClienteNombre    string          `gorm:"not null;index"`
	ClienteTelefono  string          `gorm:"not null;default:''"`
	ClienteDireccion string          `gorm:"not null;default:''"`
	MetodoPago       string          `gorm:"type:varchar(30);not null;default:''"`
	Notas            string          `gorm:"not null;default:''"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado           EstadoPedido    `gorm:"type:varchar(20);not null;index"`
	VentaID          *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt        time.Time       `gorm:"index"`
	UpdatedAt        time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

func (p *Pedido) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PedidoItem stores the unit price captured at checkout.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo           TipoItem        `gorm:"type:varchar(20);not null"`
	ReferenciaID   uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EnDolares      bool            `gorm:"not null;default:false"`
}

func (PedidoItem) TableName() string { return "pedido_items" }

func (i *PedidoItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Linea converts the stored row into its closed line variant.
func (i PedidoItem) Linea() (Linea, error) {
	switch i.Tipo {
	case TipoProducto:
		return LineaProducto{
			ProductoID:     i.ReferenciaID,
			Cantidad:       i.Cantidad,
			PrecioUnitario: i.PrecioUnitario,
			EnDolares:      i.EnDolares,
		}, nil
	case TipoPromocion:
		return LineaPromocion{
			PromocionID:    i.ReferenciaID,
			Cantidad:       i.Cantidad,
			PrecioUnitario: i.PrecioUnitario,
		}, nil
	}
	return nil, fmt.Errorf("pedido_item %s: tipo desconocido %q", i.ID, i.Tipo)
}

// NuevoPedidoItem builds the row stored for a line.
func NuevoPedidoItem(l Linea) PedidoItem {
	switch v := l.(type) {
	case LineaProducto:
		return PedidoItem{
			Tipo:           TipoProducto,
			ReferenciaID:   v.ProductoID,
			Cantidad:       v.Cantidad,
			PrecioUnitario: v.PrecioUnitario,
			EnDolares:      v.EnDolares,
		}
	case LineaPromocion:
		return PedidoItem{
			Tipo:           TipoPromocion,
			ReferenciaID:   v.PromocionID,
			Cantidad:       v.Cantidad,
			PrecioUnitario: v.PrecioUnitario,
		}
	}
	panic(fmt.Sprintf("linea de tipo %T", l))
}
