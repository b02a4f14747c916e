package repository

import (
	"context"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	List(ctx context.Context, soloActivos bool) ([]model.Gasto, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) List(ctx context.Context, soloActivos bool) ([]model.Gasto, error) {
	q := r.db.WithContext(ctx)
	if soloActivos {
		q = q.Where("activo = ?", true)
	}
	var gastos []model.Gasto
	err := q.Order("created_at DESC").Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Gasto{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "gasto", id)
	}
	return nil
}
