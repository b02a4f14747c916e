package dto

import "github.com/shopspring/decimal"

type CrearGastoRequest struct {
	Costo       decimal.Decimal `json:"costo"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=2,max=200"`
}

type GastoFilter struct {
	Todos bool `form:"todos"` // include deactivated expenses
}

type GastoResponse struct {
	ID          string          `json:"id"`
	Costo       decimal.Decimal `json:"costo"`
	Descripcion string          `json:"descripcion"`
	Activo      bool            `json:"activo"`
	CreatedAt   string          `json:"created_at"`
}
