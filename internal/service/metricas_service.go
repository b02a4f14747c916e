package service

import (
	"context"
	"time"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Metricas aggregates a set of sales and expenses. Local-currency figures use
// each sale's own rate snapshot; the *USD fields divide those by the current
// rate for a present-day view.
type Metricas struct {
	RevenuePesos   decimal.Decimal `json:"revenue_pesos"`
	RevenueDolares decimal.Decimal `json:"revenue_dolares"` // foreign-currency lines, valued in local currency
	Revenue        decimal.Decimal `json:"revenue"`
	CostPesos      decimal.Decimal `json:"cost_pesos"`
	CostDolares    decimal.Decimal `json:"cost_dolares"`
	Expenses       decimal.Decimal `json:"expenses"`
	Cost           decimal.Decimal `json:"cost"` // includes Expenses
	Profit         decimal.Decimal `json:"profit"`

	CotizacionActual decimal.Decimal `json:"cotizacion_actual"`
	RevenueUSD       decimal.Decimal `json:"revenue_usd"`
	CostUSD          decimal.Decimal `json:"cost_usd"`
	ProfitUSD        decimal.Decimal `json:"profit_usd"`

	CantidadVentas   int `json:"cantidad_ventas"`
	VentasPendientes int `json:"ventas_pendientes"`
}

// CalcularMetricas is pure: it reads nothing but its arguments. Voided sales
// and inactive expenses are ignored. A current rate of zero leaves the USD
// view at zero.
func CalcularMetricas(ventas []model.Venta, gastos []model.Gasto, cotizacionActual decimal.Decimal) Metricas {
	m := Metricas{CotizacionActual: cotizacionActual}

	for i := range ventas {
		v := &ventas[i]
		if v.Anulada {
			continue
		}
		m.CantidadVentas++
		if !v.Pagada {
			m.VentasPendientes++
		}
		for _, it := range v.Items {
			cant := decimal.NewFromInt(int64(it.Cantidad))
			ingreso := it.PrecioUnitario.Mul(cant)
			costo := it.CostoUnitario.Mul(cant)
			if it.EnDolares {
				m.RevenueDolares = m.RevenueDolares.Add(ingreso.Mul(v.Cotizacion))
				m.CostDolares = m.CostDolares.Add(costo.Mul(v.Cotizacion))
			} else {
				m.RevenuePesos = m.RevenuePesos.Add(ingreso)
				m.CostPesos = m.CostPesos.Add(costo)
			}
		}
	}

	for _, g := range gastos {
		if g.Activo {
			m.Expenses = m.Expenses.Add(g.Costo)
		}
	}

	m.Revenue = m.RevenuePesos.Add(m.RevenueDolares)
	m.Cost = m.CostPesos.Add(m.CostDolares).Add(m.Expenses)
	m.Profit = m.Revenue.Sub(m.Cost)

	if cotizacionActual.IsPositive() {
		m.RevenueUSD = m.Revenue.DivRound(cotizacionActual, 2)
		m.CostUSD = m.Cost.DivRound(cotizacionActual, 2)
		m.ProfitUSD = m.Profit.DivRound(cotizacionActual, 2)
	}
	return m
}

type MetricasService interface {
	// CalcularPeriodo computes metrics for sales with fecha in [desde, hasta).
	CalcularPeriodo(ctx context.Context, desde, hasta time.Time) (*Metricas, error)
}

type metricasService struct {
	ventas       repository.VentaRepository
	gastos       repository.GastoRepository
	cotizaciones CotizacionService
}

func NewMetricasService(ventas repository.VentaRepository, gastos repository.GastoRepository, cotizaciones CotizacionService) MetricasService {
	return &metricasService{ventas: ventas, gastos: gastos, cotizaciones: cotizaciones}
}

func (s *metricasService) CalcularPeriodo(ctx context.Context, desde, hasta time.Time) (*Metricas, error) {
	if !hasta.After(desde) {
		return nil, domainerr.Validation("hasta", "debe ser posterior a desde")
	}
	ventas, err := s.ventas.ListRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	gastos, err := s.gastos.List(ctx, true)
	if err != nil {
		return nil, err
	}

	actual := decimal.Zero
	switch c, err := s.cotizaciones.Actual(ctx); {
	case err == nil:
		actual = c.Valor
	case !domainerr.IsNotFound(err):
		return nil, err
	}

	for i := range ventas {
		if err := s.completarCotizacion(ctx, &ventas[i], actual); err != nil {
			return nil, err
		}
	}

	m := CalcularMetricas(ventas, gastos, actual)
	return &m, nil
}

// completarCotizacion fills a missing snapshot on sales that need one, using
// the rate in force at the sale date. Nothing is written back.
func (s *metricasService) completarCotizacion(ctx context.Context, v *model.Venta, actual decimal.Decimal) error {
	if v.Cotizacion.IsPositive() || !tieneDolares(v) {
		return nil
	}
	c, err := s.cotizaciones.EnFecha(ctx, v.Fecha)
	switch {
	case err == nil:
		v.Cotizacion = c.Valor
	case domainerr.IsNotFound(err):
		v.Cotizacion = actual
		log.Warn().Str("venta_id", v.ID.String()).Time("fecha", v.Fecha).
			Msg("métricas: venta sin cotización histórica, se usa la actual")
	default:
		return err
	}
	return nil
}

func tieneDolares(v *model.Venta) bool {
	for _, it := range v.Items {
		if it.EnDolares {
			return true
		}
	}
	return false
}
