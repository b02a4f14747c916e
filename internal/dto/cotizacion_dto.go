package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegistrarCotizacionRequest struct {
	Valor        decimal.Decimal `json:"valor"         validate:"required,gt=0"`
	VigenteDesde *time.Time      `json:"vigente_desde"` // empty = now
}

type CotizacionResponse struct {
	ID           string          `json:"id"`
	Valor        decimal.Decimal `json:"valor"`
	VigenteDesde string          `json:"vigente_desde"`
}
