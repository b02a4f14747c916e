package service

import (
	"context"
	"errors"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Movimiento describes why stock changed; it is stored in movimientos_stock.
type Movimiento struct {
	Tipo         string
	Motivo       string
	ReferenciaID *uuid.UUID
}

// InventarioService is the only writer of Producto.Stock.
type InventarioService interface {
	AjustarStock(ctx context.Context, productoID uuid.UUID, nuevo int, motivo string) (*model.Producto, error)
	AjustarStockDelta(ctx context.Context, productoID uuid.UUID, delta int, motivo string) (*model.Producto, error)
	// AjustarStockDeltaTx runs inside the caller's transaction (tx may be nil
	// in stub mode). It fails with InsufficientStockError before any write
	// when the result would be negative.
	AjustarStockDeltaTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, delta int, mov Movimiento) (*model.Producto, error)
	Movimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error)
	// Atomico reports whether concurrent adjustments are serialized server-side.
	Atomico() bool
}

type inventarioService struct {
	productos   repository.ProductoRepository
	stock       repository.StockRepository
	fallback    repository.StockRepository
	movimientos repository.MovimientoStockRepository
}

// NewInventarioService wires the repository chosen at startup. fallback is
// used only when stock reports ErrCapabilityUnavailable; it may be nil.
func NewInventarioService(
	productos repository.ProductoRepository,
	stock repository.StockRepository,
	fallback repository.StockRepository,
	movimientos repository.MovimientoStockRepository,
) InventarioService {
	return &inventarioService{
		productos:   productos,
		stock:       stock,
		fallback:    fallback,
		movimientos: movimientos,
	}
}

func (s *inventarioService) Atomico() bool { return s.stock.Atomic() }

func (s *inventarioService) AjustarStock(ctx context.Context, productoID uuid.UUID, nuevo int, motivo string) (*model.Producto, error) {
	if nuevo < 0 {
		return nil, domainerr.Validation("stock", "no puede ser negativo")
	}
	var out *model.Producto
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		actual, err := s.productos.FindByIDTx(ctx, tx, productoID)
		if err != nil {
			return err
		}
		anterior := actual.Stock
		p, err := s.setStock(ctx, tx, productoID, nuevo, &anterior)
		if err != nil {
			return err
		}
		out = p
		return s.registrar(ctx, tx, productoID, anterior, nuevo, Movimiento{Tipo: model.MovimientoAjusteManual, Motivo: motivo})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *inventarioService) AjustarStockDelta(ctx context.Context, productoID uuid.UUID, delta int, motivo string) (*model.Producto, error) {
	if delta == 0 {
		return nil, domainerr.Validation("delta", "no puede ser cero")
	}
	var out *model.Producto
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		p, err := s.AjustarStockDeltaTx(ctx, tx, productoID, delta, Movimiento{Tipo: model.MovimientoAjusteManual, Motivo: motivo})
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *inventarioService) AjustarStockDeltaTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, delta int, mov Movimiento) (*model.Producto, error) {
	actual, err := s.productos.FindByIDTx(ctx, tx, productoID)
	if err != nil {
		return nil, err
	}
	anterior := actual.Stock
	nuevo := anterior + delta
	if nuevo < 0 {
		return nil, &domainerr.InsufficientStockError{
			ProductoID: productoID,
			Solicitado: -delta,
			Disponible: anterior,
		}
	}
	p, err := s.setStock(ctx, tx, productoID, nuevo, &anterior)
	if err != nil {
		return nil, err
	}
	if err := s.registrar(ctx, tx, productoID, anterior, nuevo, mov); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *inventarioService) Movimientos(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return nil, err
	}
	return s.movimientos.ListByProducto(ctx, productoID, limit)
}

// setStock is the single place where the best-effort path may be taken.
func (s *inventarioService) setStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, nuevo int, esperado *int) (*model.Producto, error) {
	p, err := s.stock.SetStock(ctx, tx, id, nuevo, esperado)
	if err == nil || !errors.Is(err, domainerr.ErrCapabilityUnavailable) || s.fallback == nil {
		return p, err
	}
	log.Warn().Err(err).
		Str("producto_id", id.String()).
		Int("stock_nuevo", nuevo).
		Msg("stock: ajuste atómico no disponible, usando lectura-escritura no atómica")
	return s.fallback.SetStock(ctx, tx, id, nuevo, esperado)
}

func (s *inventarioService) registrar(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, anterior, nuevo int, mov Movimiento) error {
	return s.movimientos.CreateTx(ctx, tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          mov.Tipo,
		Cantidad:      nuevo - anterior,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		Motivo:        mov.Motivo,
		ReferenciaID:  mov.ReferenciaID,
	})
}
