package service

import (
	"context"
	"strings"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GastoService interface {
	Crear(ctx context.Context, costo decimal.Decimal, descripcion string) (*model.Gasto, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]model.Gasto, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type gastoService struct{ repo repository.GastoRepository }

func NewGastoService(repo repository.GastoRepository) GastoService {
	return &gastoService{repo: repo}
}

func (s *gastoService) Crear(ctx context.Context, costo decimal.Decimal, descripcion string) (*model.Gasto, error) {
	descripcion = strings.TrimSpace(descripcion)
	if descripcion == "" {
		return nil, domainerr.Validation("descripcion", "es obligatoria")
	}
	if !costo.IsPositive() {
		return nil, domainerr.Validation("costo", "debe ser mayor a cero")
	}
	g := &model.Gasto{Costo: costo, Descripcion: descripcion, Activo: true}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *gastoService) Listar(ctx context.Context, incluirInactivos bool) ([]model.Gasto, error) {
	return s.repo.List(ctx, !incluirInactivos)
}

func (s *gastoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}
