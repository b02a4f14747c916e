package dto

import "github.com/shopspring/decimal"

type ItemPromocionRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type CrearPromocionRequest struct {
	Nombre string                 `json:"nombre" validate:"required,min=2,max=120"`
	Precio *decimal.Decimal       `json:"precio" validate:"omitempty,gt=0"` // nil = consultar precio
	Items  []ItemPromocionRequest `json:"items"  validate:"dive"`
}

// SincronizarItemsRequest is the full desired composition. An empty list
// removes every item.
type SincronizarItemsRequest struct {
	Items []ItemPromocionRequest `json:"items" validate:"dive"`
}

type SincronizarItemsResponse struct {
	Insertados   int `json:"insertados"`
	Actualizados int `json:"actualizados"`
	Eliminados   int `json:"eliminados"`
}

type ItemPromocionResponse struct {
	ID         string `json:"id"`
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
}

type PromocionResponse struct {
	ID     string                  `json:"id"`
	Nombre string                  `json:"nombre"`
	Precio *decimal.Decimal        `json:"precio"`
	Activa bool                    `json:"activa"`
	Items  []ItemPromocionResponse `json:"items"`
}
