package handler

import (
	"net/http"

	"mercadito/internal/apierror"
	"mercadito/internal/dto"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricasHandler struct{ svc service.MetricasService }

func NewMetricasHandler(svc service.MetricasService) *MetricasHandler {
	return &MetricasHandler{svc: svc}
}

// Periodo GET /v1/metricas?desde=2026-01-01&hasta=2026-02-01
func (h *MetricasHandler) Periodo(c *gin.Context) {
	var filter dto.MetricasFilter
	if !bindQuery(c, &filter) {
		return
	}
	if filter.Desde.IsZero() || filter.Hasta.IsZero() {
		c.JSON(http.StatusBadRequest, apierror.New("desde y hasta son obligatorios (AAAA-MM-DD)"))
		return
	}
	m, err := h.svc.CalcularPeriodo(c.Request.Context(), filter.Desde, filter.Hasta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
