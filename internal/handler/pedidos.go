package handler

import (
	"net/http"
	"strings"

	"mercadito/internal/dto"
	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Crear POST /v1/pedidos (public checkout)
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente := service.DatosCliente{
		Nombre:     req.ClienteNombre,
		Telefono:   req.ClienteTelefono,
		Direccion:  req.ClienteDireccion,
		MetodoPago: req.MetodoPago,
		Notas:      req.Notas,
	}
	pedido, err := h.svc.CrearPedido(c.Request.Context(), cliente, pedidoItems(req.Items))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pedidoToResponse(pedido))
}

// Listar GET /v1/pedidos?estado=
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	pedidos, err := h.svc.ListarPedidos(c.Request.Context(), model.EstadoPedido(filter.Estado))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedidosToResponse(pedidos))
}

// Buscar GET /v1/pedidos/buscar?q=
func (h *PedidosHandler) Buscar(c *gin.Context) {
	pedidos, err := h.svc.BuscarPedidos(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedidosToResponse(pedidos))
}

// Obtener GET /v1/pedidos/:id
func (h *PedidosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pedido, err := h.svc.ObtenerPedido(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedidoToResponse(pedido))
}

// Transicionar POST /v1/pedidos/:id/transicion
func (h *PedidosHandler) Transicionar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TransicionPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pedido, err := h.svc.TransicionarPedido(c.Request.Context(), id, model.EstadoPedido(req.Estado))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedidoToResponse(pedido))
}

// CancelarVencidos POST /v1/pedidos/cancelar-vencidos
// Runs the same sweep as the background cron, on demand.
func (h *PedidosHandler) CancelarVencidos(c *gin.Context) {
	n, err := h.svc.CancelarPedidosVencidos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CancelarVencidosResponse{Cancelados: n})
}
