package repository

import (
	"context"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromocionRepository interface {
	Create(ctx context.Context, p *model.Promocion) error
	// FindByID loads the promotion with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Promocion, error)
	FindByIDsTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Promocion, error)

	// Item writes, used by the composition synchronizer inside one transaction.
	ListItemsTx(ctx context.Context, tx *gorm.DB, promocionID uuid.UUID) ([]model.PromocionItem, error)
	CreateItemTx(ctx context.Context, tx *gorm.DB, item *model.PromocionItem) error
	UpdateItemCantidadTx(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, cantidad int) error
	DeleteItemsTx(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) error

	DB() *gorm.DB
}

type promocionRepo struct{ db *gorm.DB }

func NewPromocionRepository(db *gorm.DB) PromocionRepository { return &promocionRepo{db: db} }

func (r *promocionRepo) DB() *gorm.DB { return r.db }

func (r *promocionRepo) Create(ctx context.Context, p *model.Promocion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promocionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Promocion, error) {
	var p model.Promocion
	if err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "promoción", id)
	}
	return &p, nil
}

func (r *promocionRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Promocion, error) {
	return r.FindByIDsTx(ctx, nil, ids)
}

func (r *promocionRepo) FindByIDsTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Promocion, error) {
	out := make(map[uuid.UUID]model.Promocion, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var promociones []model.Promocion
	if err := conn(ctx, r.db, tx).Preload("Items").Where("id IN ?", ids).Find(&promociones).Error; err != nil {
		return nil, err
	}
	for _, p := range promociones {
		out[p.ID] = p
	}
	return out, nil
}

func (r *promocionRepo) ListItemsTx(ctx context.Context, tx *gorm.DB, promocionID uuid.UUID) ([]model.PromocionItem, error) {
	var items []model.PromocionItem
	err := conn(ctx, r.db, tx).Where("promocion_id = ?", promocionID).Find(&items).Error
	return items, err
}

func (r *promocionRepo) CreateItemTx(ctx context.Context, tx *gorm.DB, item *model.PromocionItem) error {
	return conn(ctx, r.db, tx).Create(item).Error
}

func (r *promocionRepo) UpdateItemCantidadTx(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, cantidad int) error {
	return conn(ctx, r.db, tx).Model(&model.PromocionItem{}).
		Where("id = ?", itemID).
		Update("cantidad", cantidad).Error
}

func (r *promocionRepo) DeleteItemsTx(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).Where("id IN ?", itemIDs).Delete(&model.PromocionItem{}).Error
}
