package repository

import (
	"context"
	"errors"
	"time"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"

	"gorm.io/gorm"
)

// ErrSinCotizacion is returned when no snapshot satisfies the query.
var ErrSinCotizacion = &domainerr.NotFoundError{Entidad: "cotización", ID: "vigente"}

type CotizacionRepository interface {
	Create(ctx context.Context, c *model.Cotizacion) error
	// AtOrBefore returns the snapshot in force at t.
	AtOrBefore(ctx context.Context, t time.Time) (*model.Cotizacion, error)
}

type cotizacionRepo struct{ db *gorm.DB }

func NewCotizacionRepository(db *gorm.DB) CotizacionRepository { return &cotizacionRepo{db: db} }

func (r *cotizacionRepo) Create(ctx context.Context, c *model.Cotizacion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cotizacionRepo) AtOrBefore(ctx context.Context, t time.Time) (*model.Cotizacion, error) {
	return r.first(r.db.WithContext(ctx).Where("vigente_desde <= ?", t))
}

func (r *cotizacionRepo) first(q *gorm.DB) (*model.Cotizacion, error) {
	var c model.Cotizacion
	err := q.Order("vigente_desde DESC").Order("created_at DESC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSinCotizacion
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
