package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	Tipo     string `json:"tipo"     validate:"required,oneof=producto promocion"`
	ID       string `json:"id"       validate:"required,uuid"`
	Cantidad int    `json:"cantidad" validate:"required,min=1"`
}

// CrearPedidoRequest is the storefront checkout payload. Prices are never
// taken from the client; they are resolved from the catalog.
type CrearPedidoRequest struct {
	ClienteNombre    string              `json:"cliente_nombre"    validate:"required,min=2,max=120"`
	ClienteTelefono  string              `json:"cliente_telefono"  validate:"max=40"`
	ClienteDireccion string              `json:"cliente_direccion" validate:"max=200"`
	MetodoPago       string              `json:"metodo_pago"       validate:"omitempty,oneof=efectivo transferencia tarjeta"`
	Notas            string              `json:"notas"             validate:"max=500"`
	Items            []ItemPedidoRequest `json:"items"             validate:"required,min=1,dive"`
}

type TransicionPedidoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=recibido aceptado entregado cancelado"`
}

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=recibido aceptado entregado cancelado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	Tipo           string          `json:"tipo"`
	ID             string          `json:"id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	EnDolares      bool            `json:"en_dolares"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID               string               `json:"id"`
	ClienteNombre    string               `json:"cliente_nombre"`
	ClienteTelefono  string               `json:"cliente_telefono"`
	ClienteDireccion string               `json:"cliente_direccion"`
	MetodoPago       string               `json:"metodo_pago"`
	Notas            string               `json:"notas"`
	Total            decimal.Decimal      `json:"total"`
	Estado           string               `json:"estado"`
	VentaID          *string              `json:"venta_id"`
	Items            []ItemPedidoResponse `json:"items"`
	CreatedAt        string               `json:"created_at"`
}

type CancelarVencidosResponse struct {
	Cancelados int `json:"cancelados"`
}
