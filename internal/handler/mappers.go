package handler

import (
	"time"

	"mercadito/internal/dto"
	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/google/uuid"
)

func idPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// Item ids are already checked by the uuid validator tag.

func pedidoItems(req []dto.ItemPedidoRequest) []service.ItemSolicitado {
	out := make([]service.ItemSolicitado, len(req))
	for i, it := range req {
		out[i] = service.ItemSolicitado{
			Tipo:     model.TipoItem(it.Tipo),
			ID:       uuid.MustParse(it.ID),
			Cantidad: it.Cantidad,
		}
	}
	return out
}

func ventaItems(req []dto.ItemVentaRequest) []service.ItemSolicitado {
	out := make([]service.ItemSolicitado, len(req))
	for i, it := range req {
		out[i] = service.ItemSolicitado{
			Tipo:           model.TipoItem(it.Tipo),
			ID:             uuid.MustParse(it.ID),
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		}
	}
	return out
}

func promocionItems(req []dto.ItemPromocionRequest) []service.ItemDeseado {
	out := make([]service.ItemDeseado, len(req))
	for i, it := range req {
		out[i] = service.ItemDeseado{ProductoID: uuid.MustParse(it.ProductoID), Cantidad: it.Cantidad}
	}
	return out
}

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	resp := dto.PedidoResponse{
		ID:               p.ID.String(),
		ClienteNombre:    p.ClienteNombre,
		ClienteTelefono:  p.ClienteTelefono,
		ClienteDireccion: p.ClienteDireccion,
		MetodoPago:       p.MetodoPago,
		Notas:            p.Notas,
		Total:            p.Total,
		Estado:           string(p.Estado),
		VentaID:          idPtr(p.VentaID),
		Items:            make([]dto.ItemPedidoResponse, 0, len(p.Items)),
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range p.Items {
		l, err := it.Linea()
		if err != nil {
			continue
		}
		resp.Items = append(resp.Items, dto.ItemPedidoResponse{
			Tipo:           string(it.Tipo),
			ID:             it.ReferenciaID.String(),
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			EnDolares:      it.EnDolares,
			Subtotal:       l.Subtotal(),
		})
	}
	return resp
}

func pedidosToResponse(ps []model.Pedido) []dto.PedidoResponse {
	out := make([]dto.PedidoResponse, len(ps))
	for i := range ps {
		out[i] = pedidoToResponse(&ps[i])
	}
	return out
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:         v.ID.String(),
		Fecha:      v.Fecha.Format(time.RFC3339),
		Pagada:     v.Pagada,
		Anulada:    v.Anulada,
		Cotizacion: v.Cotizacion,
		PedidoID:   idPtr(v.PedidoID),
		Items:      make([]dto.ItemVentaResponse, 0, len(v.Items)),
		Total:      service.CalcularTotal(v),
		TotalPesos: service.CalcularTotalPesos(v),
	}
	for _, it := range v.Items {
		item := dto.ItemVentaResponse{
			ProductoID:     idPtr(it.ProductoID),
			PromocionID:    idPtr(it.PromocionID),
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			CostoUnitario:  it.CostoUnitario,
			EnDolares:      it.EnDolares,
		}
		if l, err := it.Linea(); err == nil {
			item.Subtotal = l.Subtotal()
		}
		switch {
		case it.Producto != nil:
			item.Descripcion = it.Producto.Nombre
		case it.Promocion != nil:
			item.Descripcion = it.Promocion.Nombre
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:                p.ID.String(),
		Nombre:            p.Nombre,
		Stock:             p.Stock,
		Costo:             p.Costo,
		PrecioVenta:       p.PrecioVenta,
		PrecioPromocional: p.PrecioPromocional,
		PromocionActiva:   p.PromocionActiva,
		PrecioVigente:     p.PrecioVigente(),
		EnDolares:         p.EnDolares,
		Activo:            p.Activo,
	}
}

func movimientoToResponse(m model.MovimientoStock) dto.MovimientoStockResponse {
	return dto.MovimientoStockResponse{
		ID:            m.ID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		ReferenciaID:  idPtr(m.ReferenciaID),
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
}

func promocionToResponse(p *model.Promocion) dto.PromocionResponse {
	resp := dto.PromocionResponse{
		ID:     p.ID.String(),
		Nombre: p.Nombre,
		Precio: p.Precio,
		Activa: p.Activa,
		Items:  make([]dto.ItemPromocionResponse, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		resp.Items = append(resp.Items, dto.ItemPromocionResponse{
			ID:         it.ID.String(),
			ProductoID: it.ProductoID.String(),
			Cantidad:   it.Cantidad,
		})
	}
	return resp
}

func cotizacionToResponse(c *model.Cotizacion) dto.CotizacionResponse {
	return dto.CotizacionResponse{
		ID:           c.ID.String(),
		Valor:        c.Valor,
		VigenteDesde: c.VigenteDesde.Format(time.RFC3339),
	}
}

func gastoToResponse(g model.Gasto) dto.GastoResponse {
	return dto.GastoResponse{
		ID:          g.ID.String(),
		Costo:       g.Costo,
		Descripcion: g.Descripcion,
		Activo:      g.Activo,
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
	}
}
