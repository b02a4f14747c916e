package handler

import (
	"net/http"

	"mercadito/internal/dto"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
)

type GastosHandler struct{ svc service.GastoService }

func NewGastosHandler(svc service.GastoService) *GastosHandler {
	return &GastosHandler{svc: svc}
}

// Crear POST /v1/gastos
func (h *GastosHandler) Crear(c *gin.Context) {
	var req dto.CrearGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	g, err := h.svc.Crear(c.Request.Context(), req.Costo, req.Descripcion)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gastoToResponse(*g))
}

// Listar GET /v1/gastos?todos=true
func (h *GastosHandler) Listar(c *gin.Context) {
	var filter dto.GastoFilter
	if !bindQuery(c, &filter) {
		return
	}
	gastos, err := h.svc.Listar(c.Request.Context(), filter.Todos)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.GastoResponse, len(gastos))
	for i, g := range gastos {
		resp[i] = gastoToResponse(g)
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar DELETE /v1/gastos/:id
func (h *GastosHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
