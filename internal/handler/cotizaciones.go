package handler

import (
	"net/http"
	"time"

	"mercadito/internal/dto"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
)

type CotizacionesHandler struct{ svc service.CotizacionService }

func NewCotizacionesHandler(svc service.CotizacionService) *CotizacionesHandler {
	return &CotizacionesHandler{svc: svc}
}

// Actual GET /v1/cotizaciones/actual
func (h *CotizacionesHandler) Actual(c *gin.Context) {
	cot, err := h.svc.Actual(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cotizacionToResponse(cot))
}

// Registrar POST /v1/cotizaciones
func (h *CotizacionesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var desde time.Time
	if req.VigenteDesde != nil {
		desde = *req.VigenteDesde
	}
	cot, err := h.svc.Registrar(c.Request.Context(), req.Valor, desde)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cotizacionToResponse(cot))
}
