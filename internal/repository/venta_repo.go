package repository

import (
	"context"
	"time"

	"mercadito/internal/dto"
	"mercadito/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	// CreateTx persists header and items together.
	CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	UpdatePagada(ctx context.Context, id uuid.UUID, pagada bool) error
	UpdateAnuladaTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, anulada bool) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// ListRango returns non-voided sales with Fecha in [desde, hasta).
	ListRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return conn(ctx, r.db, tx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Preload("Items.Promocion").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "venta", id)
	}
	return &v, nil
}

func (r *ventaRepo) UpdatePagada(ctx context.Context, id uuid.UUID, pagada bool) error {
	return r.updateFlag(ctx, nil, id, "pagada", pagada)
}

func (r *ventaRepo) UpdateAnuladaTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, anulada bool) error {
	return r.updateFlag(ctx, tx, id, "anulada", anulada)
}

func (r *ventaRepo) updateFlag(ctx context.Context, tx *gorm.DB, id uuid.UUID, column string, value bool) error {
	res := conn(ctx, r.db, tx).Model(&model.Venta{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "venta", id)
	}
	return nil
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	switch filter.Estado {
	case "anulada":
		q = q.Where("anulada = ?", true)
	case "pendiente":
		q = q.Where("anulada = ? AND pagada = ?", false, false)
	case "pagada":
		q = q.Where("anulada = ? AND pagada = ?", false, true)
	case "all":
		// no filter
	default:
		q = q.Where("anulada = ?", false)
	}
	if !filter.Desde.IsZero() {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if !filter.Hasta.IsZero() {
		q = q.Where("fecha < ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").
		Order("fecha DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ListRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("anulada = ? AND fecha >= ? AND fecha < ?", false, desde, hasta).
		Order("fecha ASC").
		Find(&ventas).Error
	return ventas, err
}
