package service

import (
	"context"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemDeseado is one (product, quantity) pair of a promotion's target composition.
type ItemDeseado struct {
	ProductoID uuid.UUID
	Cantidad   int
}

// PlanSync holds the writes needed to move a promotion to its target composition.
type PlanSync struct {
	Insertar   []model.PromocionItem
	Actualizar []model.PromocionItem // ID and new Cantidad
	Eliminar   []uuid.UUID           // item ids
}

func (p PlanSync) Vacio() bool {
	return len(p.Insertar) == 0 && len(p.Actualizar) == 0 && len(p.Eliminar) == 0
}

type ResultadoSync struct {
	Insertados   int
	Actualizados int
	Eliminados   int
}

// PlanificarSync diffs existentes against deseados keyed by product id.
// Existing items keep their id when only the quantity changes. deseados must
// already be free of duplicate product ids.
func PlanificarSync(promocionID uuid.UUID, existentes []model.PromocionItem, deseados []ItemDeseado) PlanSync {
	porProducto := make(map[uuid.UUID]model.PromocionItem, len(existentes))
	for _, it := range existentes {
		porProducto[it.ProductoID] = it
	}

	var plan PlanSync
	conservados := make(map[uuid.UUID]bool, len(deseados))
	for _, d := range deseados {
		conservados[d.ProductoID] = true
		actual, ok := porProducto[d.ProductoID]
		switch {
		case !ok:
			plan.Insertar = append(plan.Insertar, model.PromocionItem{
				PromocionID: promocionID,
				ProductoID:  d.ProductoID,
				Cantidad:    d.Cantidad,
			})
		case actual.Cantidad != d.Cantidad:
			actual.Cantidad = d.Cantidad
			plan.Actualizar = append(plan.Actualizar, actual)
		}
	}
	for _, it := range existentes {
		if !conservados[it.ProductoID] {
			plan.Eliminar = append(plan.Eliminar, it.ID)
		}
	}
	return plan
}

type PromocionService interface {
	CrearPromocion(ctx context.Context, nombre string, precio *decimal.Decimal, items []ItemDeseado) (*model.Promocion, error)
	ObtenerPromocion(ctx context.Context, id uuid.UUID) (*model.Promocion, error)
	// SincronizarItems replaces the composition with deseados using the
	// minimum number of writes, all inside one transaction.
	SincronizarItems(ctx context.Context, promocionID uuid.UUID, deseados []ItemDeseado) (*ResultadoSync, error)
}

type promocionService struct {
	repo      repository.PromocionRepository
	productos repository.ProductoRepository
}

func NewPromocionService(repo repository.PromocionRepository, productos repository.ProductoRepository) PromocionService {
	return &promocionService{repo: repo, productos: productos}
}

func (s *promocionService) CrearPromocion(ctx context.Context, nombre string, precio *decimal.Decimal, items []ItemDeseado) (*model.Promocion, error) {
	if nombre == "" {
		return nil, domainerr.Validation("nombre", "es obligatorio")
	}
	if precio != nil && !precio.IsPositive() {
		return nil, domainerr.Validation("precio", "debe ser mayor a cero")
	}
	if err := s.validarDeseados(ctx, items); err != nil {
		return nil, err
	}

	promo := &model.Promocion{Nombre: nombre, Precio: precio, Activa: true}
	for _, it := range items {
		promo.Items = append(promo.Items, model.PromocionItem{ProductoID: it.ProductoID, Cantidad: it.Cantidad})
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *promocionService) ObtenerPromocion(ctx context.Context, id uuid.UUID) (*model.Promocion, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *promocionService) SincronizarItems(ctx context.Context, promocionID uuid.UUID, deseados []ItemDeseado) (*ResultadoSync, error) {
	if _, err := s.repo.FindByID(ctx, promocionID); err != nil {
		return nil, err
	}
	if err := s.validarDeseados(ctx, deseados); err != nil {
		return nil, err
	}

	var res ResultadoSync
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		existentes, err := s.repo.ListItemsTx(ctx, tx, promocionID)
		if err != nil {
			return err
		}
		plan := PlanificarSync(promocionID, existentes, deseados)

		if len(plan.Eliminar) > 0 {
			if err := s.repo.DeleteItemsTx(ctx, tx, plan.Eliminar); err != nil {
				return err
			}
		}
		for _, it := range plan.Actualizar {
			if err := s.repo.UpdateItemCantidadTx(ctx, tx, it.ID, it.Cantidad); err != nil {
				return err
			}
		}
		for i := range plan.Insertar {
			if err := s.repo.CreateItemTx(ctx, tx, &plan.Insertar[i]); err != nil {
				return err
			}
		}
		res = ResultadoSync{
			Insertados:   len(plan.Insertar),
			Actualizados: len(plan.Actualizar),
			Eliminados:   len(plan.Eliminar),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("promocion_id", promocionID.String()).
		Int("insertados", res.Insertados).
		Int("actualizados", res.Actualizados).
		Int("eliminados", res.Eliminados).
		Msg("promoción: composición sincronizada")
	return &res, nil
}

func (s *promocionService) validarDeseados(ctx context.Context, deseados []ItemDeseado) error {
	vistos := make(map[uuid.UUID]bool, len(deseados))
	ids := make([]uuid.UUID, 0, len(deseados))
	for _, d := range deseados {
		if d.Cantidad <= 0 {
			return domainerr.Validation("cantidad", "debe ser mayor a cero")
		}
		if vistos[d.ProductoID] {
			return domainerr.Validation("producto_id", "producto repetido en la promoción: "+d.ProductoID.String())
		}
		vistos[d.ProductoID] = true
		ids = append(ids, d.ProductoID)
	}
	productos, err := s.productos.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := productos[id]; !ok {
			return domainerr.NotFound("producto", id)
		}
	}
	return nil
}
