package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre            string           `json:"nombre"             validate:"required,min=2,max=120"`
	Costo             decimal.Decimal  `json:"costo"              validate:"min=0"`
	PrecioVenta       decimal.Decimal  `json:"precio_venta"       validate:"required,gt=0"`
	PrecioPromocional *decimal.Decimal `json:"precio_promocional" validate:"omitempty,gt=0"`
	PromocionActiva   bool             `json:"promocion_activa"`
	Stock             int              `json:"stock"              validate:"min=0"`
	UnidadMedidaID    *string          `json:"unidad_medida_id"   validate:"omitempty,uuid"`
	EnDolares         bool             `json:"en_dolares"`
}

type ActualizarPreciosRequest struct {
	Costo             decimal.Decimal  `json:"costo"              validate:"min=0"`
	PrecioVenta       decimal.Decimal  `json:"precio_venta"       validate:"required,gt=0"`
	PrecioPromocional *decimal.Decimal `json:"precio_promocional" validate:"omitempty,gt=0"`
}

// AjustarStockRequest sets an absolute stock or applies a delta; exactly one.
type AjustarStockRequest struct {
	Stock  *int   `json:"stock"  validate:"omitempty,min=0"`
	Delta  *int   `json:"delta"  validate:"omitempty,ne=0"`
	Motivo string `json:"motivo" validate:"max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                string           `json:"id"`
	Nombre            string           `json:"nombre"`
	Stock             int              `json:"stock"`
	Costo             decimal.Decimal  `json:"costo"`
	PrecioVenta       decimal.Decimal  `json:"precio_venta"`
	PrecioPromocional *decimal.Decimal `json:"precio_promocional"`
	PromocionActiva   bool             `json:"promocion_activa"`
	PrecioVigente     decimal.Decimal  `json:"precio_vigente"`
	EnDolares         bool             `json:"en_dolares"`
	Activo            bool             `json:"activo"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id"`
	CreatedAt     string  `json:"created_at"`
}
