package handler

import (
	"net/http"
	"strconv"

	"mercadito/internal/apierror"
	"mercadito/internal/dto"
	"mercadito/internal/model"
	"mercadito/internal/repository"
	"mercadito/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const movimientosLimitDefault = 50

// ProductosHandler covers the minimal catalog administration the order flow
// needs. Stock changes always go through InventarioService.
type ProductosHandler struct {
	repo       repository.ProductoRepository
	inventario service.InventarioService
}

func NewProductosHandler(repo repository.ProductoRepository, inventario service.InventarioService) *ProductosHandler {
	return &ProductosHandler{repo: repo, inventario: inventario}
}

// Crear POST /v1/productos
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := &model.Producto{
		Nombre:            req.Nombre,
		Stock:             req.Stock,
		Costo:             req.Costo,
		PrecioVenta:       req.PrecioVenta,
		PrecioPromocional: req.PrecioPromocional,
		PromocionActiva:   req.PromocionActiva,
		EnDolares:         req.EnDolares,
		Activo:            true,
	}
	if req.UnidadMedidaID != nil {
		id := uuid.MustParse(*req.UnidadMedidaID)
		p.UnidadMedidaID = &id
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productoToResponse(p))
}

// Obtener GET /v1/productos/:id
func (h *ProductosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productoToResponse(p))
}

// ActualizarPrecios PUT /v1/productos/:id/precios
// Existing sales keep the prices they captured.
func (h *ProductosHandler) ActualizarPrecios(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarPreciosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.UpdatePrecios(ctx, id, req.PrecioVenta, req.Costo, req.PrecioPromocional); err != nil {
		writeError(c, err)
		return
	}
	p, err := h.repo.FindByID(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productoToResponse(p))
}

// AjustarStock PATCH /v1/productos/:id/stock
// Body carries either an absolute "stock" or a signed "delta".
func (h *ProductosHandler) AjustarStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if (req.Stock == nil) == (req.Delta == nil) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Indicar stock o delta, no ambos"))
		return
	}

	var (
		p   *model.Producto
		err error
	)
	if req.Stock != nil {
		p, err = h.inventario.AjustarStock(c.Request.Context(), id, *req.Stock, req.Motivo)
	} else {
		p, err = h.inventario.AjustarStockDelta(c.Request.Context(), id, *req.Delta, req.Motivo)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productoToResponse(p))
}

// Movimientos GET /v1/productos/:id/movimientos?limit=
func (h *ProductosHandler) Movimientos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit := movimientosLimitDefault
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, apierror.New("limit debe estar entre 1 y 500"))
			return
		}
		limit = n
	}
	movs, err := h.inventario.Movimientos(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.MovimientoStockResponse, len(movs))
	for i, m := range movs {
		resp[i] = movimientoToResponse(m)
	}
	c.JSON(http.StatusOK, resp)
}
