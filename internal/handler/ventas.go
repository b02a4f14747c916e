package handler

import (
	"bytes"
	"net/http"
	"time"

	"mercadito/internal/dto"
	"mercadito/internal/infra"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

// Registrar POST /v1/ventas (manual sale, no stock effect)
func (h *VentasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var fecha time.Time
	if req.Fecha != nil {
		fecha = *req.Fecha
	}
	venta, err := h.svc.RegistrarVenta(c.Request.Context(), fecha, ventaItems(req.Items), req.Pagada)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ventaToResponse(venta))
}

// Listar GET /v1/ventas?desde=&hasta=&estado=&page=&limit=
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	ventas, total, err := h.svc.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.VentaListResponse{
		Data:  make([]dto.VentaResponse, len(ventas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range ventas {
		resp.Data[i] = ventaToResponse(&ventas[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /v1/ventas/:id
func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	venta, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ventaToResponse(venta))
}

// MarcarPagada PATCH /v1/ventas/:id/pagada
func (h *VentasHandler) MarcarPagada(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MarcarPagadaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	venta, err := h.svc.MarcarPagada(c.Request.Context(), id, *req.Pagada)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ventaToResponse(venta))
}

// Anular DELETE /v1/ventas/:id
func (h *VentasHandler) Anular(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	venta, err := h.svc.AnularVenta(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ventaToResponse(venta))
}

// Reactivar PATCH /v1/ventas/:id/reactivar
func (h *VentasHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	venta, err := h.svc.ReactivarVenta(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ventaToResponse(venta))
}

// Ticket GET /v1/ventas/:id/ticket
// Renders into a buffer first so a PDF failure can still answer JSON.
func (h *VentasHandler) Ticket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	venta, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.WriteTicketPDF(&buf, venta, service.CalcularTotalPesos(venta)); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=ticket-"+venta.ID.String()+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
