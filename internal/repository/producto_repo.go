package repository

import (
	"context"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository is the read side of the catalog. Stock writes go
// through StockRepository only.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	// FindByIDTx reads inside tx when non-nil so the value matches what the
	// transaction will write against.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	// FindByIDs returns the products found; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error)
	FindByIDsTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error)
	UpdatePrecios(ctx context.Context, id uuid.UUID, venta, costo decimal.Decimal, promocional *decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.FindByIDTx(ctx, nil, id)
}

func (r *productoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	if err := conn(ctx, r.db, tx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "producto", id)
	}
	return &p, nil
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error) {
	return r.FindByIDsTx(ctx, nil, ids)
}

func (r *productoRepo) FindByIDsTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Producto, error) {
	out := make(map[uuid.UUID]model.Producto, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var productos []model.Producto
	if err := conn(ctx, r.db, tx).Where("id IN ?", ids).Find(&productos).Error; err != nil {
		return nil, err
	}
	for _, p := range productos {
		out[p.ID] = p
	}
	return out, nil
}

func (r *productoRepo) UpdatePrecios(ctx context.Context, id uuid.UUID, venta, costo decimal.Decimal, promocional *decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"precio_venta":       venta,
		"costo":              costo,
		"precio_promocional": promocional,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "producto", id)
	}
	return nil
}
