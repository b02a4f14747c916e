package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// transiciones is the complete order lifecycle. Terminal states have no entry.
var transiciones = map[model.EstadoPedido][]model.EstadoPedido{
	model.EstadoRecibido: {model.EstadoAceptado, model.EstadoCancelado},
	model.EstadoAceptado: {model.EstadoEntregado, model.EstadoCancelado},
}

// TransicionPermitida reports whether desde → hacia is in the lifecycle table.
func TransicionPermitida(desde, hacia model.EstadoPedido) bool {
	for _, e := range transiciones[desde] {
		if e == hacia {
			return true
		}
	}
	return false
}

// DatosCliente is the customer information captured at checkout.
type DatosCliente struct {
	Nombre     string
	Telefono   string
	Direccion  string
	MetodoPago string
	Notas      string
}

// Notificador is told about every new order after it is committed.
// Failures are logged and never affect the order.
type Notificador interface {
	NotificarPedidoNuevo(ctx context.Context, pedido *model.Pedido) error
}

type PedidoService interface {
	CrearPedido(ctx context.Context, cliente DatosCliente, items []ItemSolicitado) (*model.Pedido, error)
	// TransicionarPedido applies one lifecycle step and its side effects.
	TransicionarPedido(ctx context.Context, id uuid.UUID, hacia model.EstadoPedido) (*model.Pedido, error)
	ObtenerPedido(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	ListarPedidos(ctx context.Context, estado model.EstadoPedido) ([]model.Pedido, error)
	BuscarPedidos(ctx context.Context, q string) ([]model.Pedido, error)
	// CancelarPedidosVencidos cancels every "recibido" order older than the
	// staleness threshold and returns how many were canceled.
	CancelarPedidosVencidos(ctx context.Context) (int, error)
}

// DefaultAntiguedadMaxima is how long an order may wait in "recibido".
const DefaultAntiguedadMaxima = 24 * time.Hour

type pedidoService struct {
	repo        repository.PedidoRepository
	catalogo    catalogo
	inventario  InventarioService
	ventas      VentaService
	notificador Notificador
	ahora       func() time.Time
	vencimiento time.Duration
}

type Opcion func(*pedidoService)

// ConReloj replaces time.Now. Used by the stale-order sweep tests.
func ConReloj(ahora func() time.Time) Opcion {
	return func(s *pedidoService) { s.ahora = ahora }
}

func ConAntiguedadMaxima(d time.Duration) Opcion {
	return func(s *pedidoService) {
		if d > 0 {
			s.vencimiento = d
		}
	}
}

func ConNotificador(n Notificador) Opcion {
	return func(s *pedidoService) { s.notificador = n }
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productos repository.ProductoRepository,
	promociones repository.PromocionRepository,
	inventario InventarioService,
	ventas VentaService,
	opts ...Opcion,
) PedidoService {
	s := &pedidoService{
		repo:        repo,
		catalogo:    catalogo{productos: productos, promociones: promociones},
		inventario:  inventario,
		ventas:      ventas,
		ahora:       time.Now,
		vencimiento: DefaultAntiguedadMaxima,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ── CrearPedido ───────────────────────────────────────────────────────────────

func (s *pedidoService) CrearPedido(ctx context.Context, cliente DatosCliente, items []ItemSolicitado) (*model.Pedido, error) {
	if strings.TrimSpace(cliente.Nombre) == "" {
		return nil, domainerr.Validation("cliente_nombre", "es obligatorio")
	}
	for _, it := range items {
		if it.PrecioUnitario != nil {
			return nil, domainerr.Validation("precio_unitario", "no se acepta en pedidos")
		}
	}
	lineas, err := s.catalogo.resolver(ctx, items)
	if err != nil {
		return nil, err
	}
	cotizacion, err := s.ventas.CotizacionVigente(ctx)
	if err != nil {
		return nil, err
	}
	total, err := sumarPesos(lineas, cotizacion)
	if err != nil {
		return nil, err
	}

	pedido := &model.Pedido{
		ClienteNombre:    strings.TrimSpace(cliente.Nombre),
		ClienteTelefono:  cliente.Telefono,
		ClienteDireccion: cliente.Direccion,
		MetodoPago:       cliente.MetodoPago,
		Notas:            cliente.Notas,
		Total:            total,
		Estado:           model.EstadoRecibido,
		CreatedAt:        s.ahora(),
	}
	for _, l := range lineas {
		pedido.Items = append(pedido.Items, model.NuevoPedidoItem(l))
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(ctx, tx, pedido)
	}); err != nil {
		return nil, err
	}

	log.Info().Str("pedido_id", pedido.ID.String()).Str("total", pedido.Total.String()).Msg("pedido recibido")

	if s.notificador != nil {
		if err := s.notificador.NotificarPedidoNuevo(ctx, pedido); err != nil {
			log.Warn().Err(err).Str("pedido_id", pedido.ID.String()).Msg("pedido: notificación no encolada")
		}
	}
	return pedido, nil
}

// ── TransicionarPedido ────────────────────────────────────────────────────────

func (s *pedidoService) TransicionarPedido(ctx context.Context, id uuid.UUID, hacia model.EstadoPedido) (*model.Pedido, error) {
	if !hacia.Valido() {
		return nil, domainerr.Validation("estado", "desconocido: "+string(hacia))
	}
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	desde := pedido.Estado
	if !TransicionPermitida(desde, hacia) {
		return nil, &domainerr.InvalidTransitionError{Desde: string(desde), Hacia: string(hacia)}
	}

	switch hacia {
	case model.EstadoEntregado:
		err = s.entregar(ctx, pedido)
	case model.EstadoCancelado:
		err = s.cancelar(ctx, pedido)
	default:
		err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.repo.UpdateEstadoTx(ctx, tx, pedido.ID, desde, hacia, nil)
		})
	}
	if err != nil {
		return nil, err
	}
	pedido.Estado = hacia

	log.Info().
		Str("pedido_id", pedido.ID.String()).
		Str("desde", string(desde)).
		Str("hacia", string(hacia)).
		Msg("pedido: transición aplicada")
	return pedido, nil
}

// descuento is the total quantity to take from one product on delivery.
type descuento struct {
	productoID uuid.UUID
	cantidad   int
}

// planEntrega expands promotion lines into their constituents and merges
// repeated products. The result is sorted by product id so concurrent
// deliveries lock rows in the same order.
func (s *pedidoService) planEntrega(ctx context.Context, pedido *model.Pedido) ([]model.Linea, []descuento, error) {
	lineas := make([]model.Linea, 0, len(pedido.Items))
	var promoIDs []uuid.UUID
	for _, it := range pedido.Items {
		l, err := it.Linea()
		if err != nil {
			return nil, nil, err
		}
		lineas = append(lineas, l)
		if lp, ok := l.(model.LineaPromocion); ok {
			promoIDs = append(promoIDs, lp.PromocionID)
		}
	}
	if len(lineas) == 0 {
		return nil, nil, domainerr.Validation("items", "el pedido no tiene ítems")
	}

	promociones, err := s.catalogo.promociones.FindByIDs(ctx, promoIDs)
	if err != nil {
		return nil, nil, err
	}

	totales := make(map[uuid.UUID]int)
	for _, l := range lineas {
		switch v := l.(type) {
		case model.LineaProducto:
			totales[v.ProductoID] += v.Cantidad
		case model.LineaPromocion:
			pr, ok := promociones[v.PromocionID]
			if !ok {
				return nil, nil, domainerr.NotFound("promoción", v.PromocionID)
			}
			for _, it := range pr.Items {
				totales[it.ProductoID] += it.Cantidad * v.Cantidad
			}
		}
	}

	descuentos := make([]descuento, 0, len(totales))
	for id, cant := range totales {
		descuentos = append(descuentos, descuento{productoID: id, cantidad: cant})
	}
	sort.Slice(descuentos, func(i, j int) bool {
		return descuentos[i].productoID.String() < descuentos[j].productoID.String()
	})
	return lineas, descuentos, nil
}

// verificarStock fails with the first shortage before anything is written.
func (s *pedidoService) verificarStock(ctx context.Context, descuentos []descuento) error {
	ids := make([]uuid.UUID, len(descuentos))
	for i, d := range descuentos {
		ids[i] = d.productoID
	}
	productos, err := s.catalogo.productos.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, d := range descuentos {
		p, ok := productos[d.productoID]
		if !ok {
			return domainerr.NotFound("producto", d.productoID)
		}
		if p.Stock < d.cantidad {
			return &domainerr.InsufficientStockError{
				ProductoID: d.productoID,
				Solicitado: d.cantidad,
				Disponible: p.Stock,
			}
		}
	}
	return nil
}

// entregar deducts stock, then records the sale, then moves the order, all in
// one transaction. The order row is matched on its current state so a
// concurrent delivery of the same order rolls back with ConcurrencyError.
func (s *pedidoService) entregar(ctx context.Context, pedido *model.Pedido) error {
	lineas, descuentos, err := s.planEntrega(ctx, pedido)
	if err != nil {
		return err
	}
	if err := s.verificarStock(ctx, descuentos); err != nil {
		return err
	}
	cotizacion, err := s.ventas.CotizacionVigente(ctx)
	if err != nil {
		return err
	}

	var venta *model.Venta
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		mov := Movimiento{Tipo: model.MovimientoEntregaPedido, Motivo: "entrega de pedido", ReferenciaID: &pedido.ID}
		for _, d := range descuentos {
			if _, err := s.inventario.AjustarStockDeltaTx(ctx, tx, d.productoID, -d.cantidad, mov); err != nil {
				return err
			}
		}

		v, err := s.ventas.RegistrarVentaTx(ctx, tx, NuevaVenta{
			Fecha:      s.ahora(),
			Lineas:     lineas,
			Pagada:     false,
			PedidoID:   &pedido.ID,
			Cotizacion: cotizacion,
		})
		if err != nil {
			return err
		}
		venta = v

		return s.repo.UpdateEstadoTx(ctx, tx, pedido.ID, pedido.Estado, model.EstadoEntregado, &venta.ID)
	})
	if err != nil {
		return err
	}
	pedido.VentaID = &venta.ID
	return nil
}

// cancelar voids a linked sale if one exists. That only happens when the row
// was edited outside the lifecycle; stock deducted for it is not restored.
func (s *pedidoService) cancelar(ctx context.Context, pedido *model.Pedido) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if pedido.VentaID != nil {
			log.Warn().
				Str("pedido_id", pedido.ID.String()).
				Str("venta_id", pedido.VentaID.String()).
				Msg("pedido: cancelación con venta vinculada, se anula la venta sin reponer stock")
			if err := s.ventas.AnularVentaTx(ctx, tx, *pedido.VentaID); err != nil {
				return err
			}
		}
		return s.repo.UpdateEstadoTx(ctx, tx, pedido.ID, pedido.Estado, model.EstadoCancelado, nil)
	})
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *pedidoService) ObtenerPedido(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *pedidoService) ListarPedidos(ctx context.Context, estado model.EstadoPedido) ([]model.Pedido, error) {
	if estado != "" && !estado.Valido() {
		return nil, domainerr.Validation("estado", "desconocido: "+string(estado))
	}
	return s.repo.List(ctx, estado)
}

func (s *pedidoService) BuscarPedidos(ctx context.Context, q string) ([]model.Pedido, error) {
	if strings.TrimSpace(q) == "" {
		return s.repo.List(ctx, "")
	}
	return s.repo.Search(ctx, q)
}

// ── CancelarPedidosVencidos ───────────────────────────────────────────────────

func (s *pedidoService) CancelarPedidosVencidos(ctx context.Context) (int, error) {
	limite := s.ahora().Add(-s.vencimiento)
	pedidos, err := s.repo.ListRecibidosAntesDe(ctx, limite)
	if err != nil {
		return 0, err
	}

	cancelados := 0
	for _, p := range pedidos {
		if err := ctx.Err(); err != nil {
			return cancelados, err
		}
		_, err := s.TransicionarPedido(ctx, p.ID, model.EstadoCancelado)
		var conc *domainerr.ConcurrencyError
		var trans *domainerr.InvalidTransitionError
		switch {
		case err == nil:
			cancelados++
		case errors.As(err, &conc), errors.As(err, &trans):
			// moved by someone else since the listing
			log.Debug().Str("pedido_id", p.ID.String()).Err(err).Msg("pedido vencido omitido")
		default:
			return cancelados, err
		}
	}

	if cancelados > 0 {
		log.Info().Int("cancelados", cancelados).Time("limite", limite).Msg("pedidos vencidos cancelados")
	}
	return cancelados, nil
}
