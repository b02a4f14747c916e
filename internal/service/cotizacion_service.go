package service

import (
	"context"
	"time"

	"mercadito/internal/cache"
	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CotizacionService is the exchange rate provider. Rates are local-currency
// units per foreign-currency unit.
type CotizacionService interface {
	// Actual returns the snapshot in force now, or a NotFoundError if none is.
	// Snapshots dated in the future are ignored until they take effect.
	Actual(ctx context.Context) (*model.Cotizacion, error)
	// EnFecha returns the snapshot in force at t.
	EnFecha(ctx context.Context, t time.Time) (*model.Cotizacion, error)
	Registrar(ctx context.Context, valor decimal.Decimal, vigenteDesde time.Time) (*model.Cotizacion, error)
}

type cotizacionService struct {
	repo  repository.CotizacionRepository
	cache cache.CotizacionCache
	ahora func() time.Time
}

func NewCotizacionService(repo repository.CotizacionRepository, c cache.CotizacionCache) CotizacionService {
	if c == nil {
		c = cache.NoopCotizacionCache{}
	}
	return &cotizacionService{repo: repo, cache: c, ahora: time.Now}
}

func (s *cotizacionService) Actual(ctx context.Context) (*model.Cotizacion, error) {
	if c, ok, err := s.cache.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("cotización: lectura de caché falló")
	} else if ok {
		return c, nil
	}

	c, err := s.repo.AtOrBefore(ctx, s.ahora())
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, c); err != nil {
		log.Warn().Err(err).Msg("cotización: escritura de caché falló")
	}
	return c, nil
}

func (s *cotizacionService) EnFecha(ctx context.Context, t time.Time) (*model.Cotizacion, error) {
	return s.repo.AtOrBefore(ctx, t)
}

func (s *cotizacionService) Registrar(ctx context.Context, valor decimal.Decimal, vigenteDesde time.Time) (*model.Cotizacion, error) {
	if !valor.IsPositive() {
		return nil, domainerr.Validation("valor", "debe ser mayor a cero")
	}
	if vigenteDesde.IsZero() {
		vigenteDesde = s.ahora()
	}
	c := &model.Cotizacion{Valor: valor, VigenteDesde: vigenteDesde}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("cotización: invalidación de caché falló")
	}
	log.Info().Str("valor", valor.String()).Time("vigente_desde", vigenteDesde).Msg("cotización registrada")
	return c, nil
}
