package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Desde  time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta  time.Time `form:"hasta" time_format:"2006-01-02"` // exclusive
	Estado string    `form:"estado" validate:"omitempty,oneof=activa pendiente pagada anulada all"`
	Page   int       `form:"page,default=1"   validate:"min=1"`
	Limit  int       `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest is one line of a manually entered sale. PrecioUnitario
// overrides the catalog price when present.
type ItemVentaRequest struct {
	Tipo           string           `json:"tipo"            validate:"required,oneof=producto promocion"`
	ID             string           `json:"id"              validate:"required,uuid"`
	Cantidad       int              `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,min=0"`
}

type RegistrarVentaRequest struct {
	Fecha  *time.Time         `json:"fecha"` // empty = now
	Pagada bool               `json:"pagada"`
	Items  []ItemVentaRequest `json:"items" validate:"required,min=1,dive"`
}

type MarcarPagadaRequest struct {
	Pagada *bool `json:"pagada" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     *string         `json:"producto_id,omitempty"`
	PromocionID    *string         `json:"promocion_id,omitempty"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	EnDolares      bool            `json:"en_dolares"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         string              `json:"id"`
	Fecha      string              `json:"fecha"`
	Pagada     bool                `json:"pagada"`
	Anulada    bool                `json:"anulada"`
	Cotizacion decimal.Decimal     `json:"cotizacion"`
	PedidoID   *string             `json:"pedido_id"`
	Items      []ItemVentaResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	TotalPesos decimal.Decimal     `json:"total_pesos"`
}
