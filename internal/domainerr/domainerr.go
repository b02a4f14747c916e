// Package domainerr defines the typed failures returned by the order, sale,
// promotion and inventory services. Handlers map them to HTTP statuses with
// errors.As; nothing in this package knows about transport.
package domainerr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrCapabilityUnavailable is returned by the atomic stock repository when the
// server-side stock function does not exist. It is the only error that may
// re-route a stock write to the best-effort path.
var ErrCapabilityUnavailable = errors.New("ajuste atómico de stock no disponible")

// ValidationError reports malformed input.
type ValidationError struct {
	Campo  string
	Motivo string
}

func (e *ValidationError) Error() string {
	if e.Campo == "" {
		return e.Motivo
	}
	return fmt.Sprintf("%s: %s", e.Campo, e.Motivo)
}

func Validation(campo, motivo string) error {
	return &ValidationError{Campo: campo, Motivo: motivo}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entidad string
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entidad, e.ID)
}

func NotFound(entidad string, id fmt.Stringer) error {
	return &NotFoundError{Entidad: entidad, ID: id.String()}
}

// InvalidTransitionError reports a state machine rule violation.
type InvalidTransitionError struct {
	Desde string
	Hacia string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición inválida: %s → %s", e.Desde, e.Hacia)
}

// InsufficientStockError reports a deduction that would leave stock negative.
type InsufficientStockError struct {
	ProductoID uuid.UUID
	Solicitado int
	Disponible int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %d, disponible %d",
		e.ProductoID, e.Solicitado, e.Disponible)
}

// ConcurrencyError reports an optimistic check that lost against a concurrent write.
type ConcurrencyError struct {
	Entidad string
	ID      string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("%s %s modificado concurrentemente", e.Entidad, e.ID)
}

func Concurrency(entidad string, id fmt.Stringer) error {
	return &ConcurrencyError{Entidad: entidad, ID: id.String()}
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
