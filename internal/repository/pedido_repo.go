package repository

import (
	"context"
	"strings"
	"time"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	// UpdateEstadoTx moves the order from desde to hacia. The row is matched on
	// both id and desde; no match means another writer got there first and a
	// ConcurrencyError is returned. ventaID, when non-nil, is linked.
	UpdateEstadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, desde, hacia model.EstadoPedido, ventaID *uuid.UUID) error
	List(ctx context.Context, estado model.EstadoPedido) ([]model.Pedido, error)
	Search(ctx context.Context, query string) ([]model.Pedido, error)
	// ListRecibidosAntesDe returns orders still in "recibido" created before t.
	ListRecibidosAntesDe(ctx context.Context, t time.Time) ([]model.Pedido, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	if err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "pedido", id)
	}
	return &p, nil
}

func (r *pedidoRepo) UpdateEstadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, desde, hacia model.EstadoPedido, ventaID *uuid.UUID) error {
	campos := map[string]interface{}{"estado": hacia}
	if ventaID != nil {
		campos["venta_id"] = *ventaID
	}
	res := conn(ctx, r.db, tx).Model(&model.Pedido{}).
		Where("id = ? AND estado = ?", id, desde).
		Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerr.Concurrency("pedido", id)
	}
	return nil
}

func (r *pedidoRepo) List(ctx context.Context, estado model.EstadoPedido) ([]model.Pedido, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	var pedidos []model.Pedido
	err := q.Order("created_at DESC").Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) Search(ctx context.Context, query string) ([]model.Pedido, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").
		Where("LOWER(cliente_nombre) LIKE ? OR LOWER(cliente_telefono) LIKE ? OR LOWER(cliente_direccion) LIKE ?", like, like, like).
		Order("created_at DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListRecibidosAntesDe(ctx context.Context, t time.Time) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Where("estado = ? AND created_at < ?", model.EstadoRecibido, t).
		Order("created_at ASC").
		Find(&pedidos).Error
	return pedidos, err
}
