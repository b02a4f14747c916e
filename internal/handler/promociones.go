package handler

import (
	"net/http"

	"mercadito/internal/dto"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
)

type PromocionesHandler struct{ svc service.PromocionService }

func NewPromocionesHandler(svc service.PromocionService) *PromocionesHandler {
	return &PromocionesHandler{svc: svc}
}

// Crear POST /v1/promociones
func (h *PromocionesHandler) Crear(c *gin.Context) {
	var req dto.CrearPromocionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	promo, err := h.svc.CrearPromocion(c.Request.Context(), req.Nombre, req.Precio, promocionItems(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promocionToResponse(promo))
}

// Obtener GET /v1/promociones/:id
func (h *PromocionesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	promo, err := h.svc.ObtenerPromocion(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, promocionToResponse(promo))
}

// SincronizarItems PUT /v1/promociones/:id/items
// Replaces the bundle composition with the given list, writing only the diff.
func (h *PromocionesHandler) SincronizarItems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SincronizarItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res, err := h.svc.SincronizarItems(c.Request.Context(), id, promocionItems(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SincronizarItemsResponse{
		Insertados:   res.Insertados,
		Actualizados: res.Actualizados,
		Eliminados:   res.Eliminados,
	})
}
