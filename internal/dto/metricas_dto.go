package dto

import "time"

// MetricasFilter is bound from the query string of GET /v1/metricas.
// Hasta is exclusive.
type MetricasFilter struct {
	Desde time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta time.Time `form:"hasta" time_format:"2006-01-02"`
}
