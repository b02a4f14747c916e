package repository

import (
	"context"
	"errors"
	"fmt"

	"mercadito/internal/domainerr"
	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockRepository writes Producto.Stock. Two implementations exist and one is
// chosen at startup by DetectStockRepository:
//
//   - atomic: one call to the ajustar_stock() server-side function, which locks
//     the row, checks the expected value and writes in a single statement.
//   - best-effort: read then write from the client. Concurrent writers can
//     overwrite each other; esperado is ignored.
type StockRepository interface {
	// Atomic reports whether SetStock honours esperado under concurrency.
	Atomic() bool
	// SetStock stores nuevo as the product's stock. When esperado is non-nil
	// and the repository is atomic, the write applies only if the stored
	// stock still equals *esperado, otherwise a ConcurrencyError is returned.
	SetStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, nuevo int, esperado *int) (*model.Producto, error)
}

// Postgres SQLSTATE codes raised by ajustar_stock() or by the server itself.
const (
	pgUndefinedFunction    = "42883"
	pgSerializationFailure = "40001"
	pgNoDataFound          = "P0002"
	pgNumericOutOfRange    = "22003"
	pgCheckViolation       = "23514"
)

const stockFunctionSignature = "ajustar_stock(uuid,integer,integer)"

// DetectStockRepository probes the database once. The atomic repository is
// returned only on Postgres with ajustar_stock() installed and mode != "off".
func DetectStockRepository(ctx context.Context, db *gorm.DB, mode string) StockRepository {
	if mode != "off" && db.Dialector.Name() == "postgres" {
		var ok bool
		err := db.WithContext(ctx).
			Raw("SELECT to_regprocedure(?) IS NOT NULL", stockFunctionSignature).
			Scan(&ok).Error
		if err == nil && ok {
			log.Info().Msg("stock: using atomic server-side adjustment")
			return NewAtomicStockRepository(db)
		}
		if err != nil {
			log.Warn().Err(err).Msg("stock: capability probe failed")
		}
	}
	log.Warn().Str("dialect", db.Dialector.Name()).Str("mode", mode).
		Msg("stock: atomic adjustment unavailable, using best-effort read-then-write")
	return NewBestEffortStockRepository(db)
}

// ── atomic ──────────────────────────────────────────────────────────────────

type atomicStockRepo struct{ db *gorm.DB }

func NewAtomicStockRepository(db *gorm.DB) StockRepository { return &atomicStockRepo{db: db} }

func (r *atomicStockRepo) Atomic() bool { return true }

func (r *atomicStockRepo) SetStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, nuevo int, esperado *int) (*model.Producto, error) {
	if nuevo < 0 {
		return nil, domainerr.Validation("stock", "no puede ser negativo")
	}
	q := conn(ctx, r.db, tx)

	// A failed statement aborts the surrounding Postgres transaction; the
	// savepoint keeps tx usable so the caller can still fall back or report.
	const sp = "ajustar_stock"
	if tx != nil {
		if err := q.SavePoint(sp).Error; err != nil {
			return nil, err
		}
	}

	var p model.Producto
	err := q.Raw("SELECT * FROM ajustar_stock(?, ?, ?)", id, nuevo, esperado).Scan(&p).Error
	if err != nil {
		if tx != nil {
			if rbErr := q.RollbackTo(sp).Error; rbErr != nil {
				return nil, fmt.Errorf("rollback to savepoint: %w (after %v)", rbErr, err)
			}
		}
		return nil, classifyStockError(err, id)
	}
	if p.ID == uuid.Nil {
		return nil, domainerr.NotFound("producto", id)
	}
	return &p, nil
}

func classifyStockError(err error, id uuid.UUID) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUndefinedFunction:
		return fmt.Errorf("%w: %s", domainerr.ErrCapabilityUnavailable, pgErr.Message)
	case pgSerializationFailure:
		return domainerr.Concurrency("producto", id)
	case pgNoDataFound:
		return domainerr.NotFound("producto", id)
	case pgNumericOutOfRange, pgCheckViolation:
		return domainerr.Validation("stock", "no puede ser negativo")
	}
	return err
}

// ── best-effort ─────────────────────────────────────────────────────────────

type bestEffortStockRepo struct{ db *gorm.DB }

// NewBestEffortStockRepository returns the non-atomic fallback. Two callers
// adjusting the same product concurrently may both read the same value and
// the last write wins.
func NewBestEffortStockRepository(db *gorm.DB) StockRepository {
	return &bestEffortStockRepo{db: db}
}

func (r *bestEffortStockRepo) Atomic() bool { return false }

func (r *bestEffortStockRepo) SetStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, nuevo int, _ *int) (*model.Producto, error) {
	if nuevo < 0 {
		return nil, domainerr.Validation("stock", "no puede ser negativo")
	}
	q := conn(ctx, r.db, tx)

	var p model.Producto
	if err := q.First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "producto", id)
	}
	if err := q.Model(&model.Producto{}).Where("id = ?", id).Update("stock", nuevo).Error; err != nil {
		return nil, classifyStockError(err, id)
	}
	p.Stock = nuevo
	return &p, nil
}
