package infra

import (
	"fmt"

	"mercadito/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and brings the schema up
// to date. See Migrate.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Promocion{},
		&model.PromocionItem{},
		&model.Cotizacion{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Gasto{},
	}
}

// Migrate runs AutoMigrate and, on Postgres, the SQL patches GORM cannot
// express. Other dialects (the sqlite test databases) get tables only.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements. Each statement uses
// IF NOT EXISTS / CREATE OR REPLACE semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"productos.stock >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock_no_negativo CHECK (stock >= 0);
  END IF;
END $$`},

		{"partial index for the stale order sweep", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pedidos_recibidos_created_at') THEN
    CREATE INDEX idx_pedidos_recibidos_created_at
        ON pedidos (created_at)
        WHERE estado = 'recibido';
  END IF;
END $$`},

		// ajustar_stock locks the product row, checks the expected stock when
		// given and writes the new value. Error codes are read by
		// repository.classifyStockError.
		{"function ajustar_stock", `
CREATE OR REPLACE FUNCTION ajustar_stock(p_id uuid, p_nuevo integer, p_esperado integer)
RETURNS SETOF productos
LANGUAGE plpgsql AS $$
DECLARE
  v_actual integer;
BEGIN
  IF p_nuevo < 0 THEN
    RAISE EXCEPTION 'stock negativo para producto %', p_id USING ERRCODE = '22003';
  END IF;

  SELECT stock INTO v_actual FROM productos WHERE id = p_id FOR UPDATE;
  IF NOT FOUND THEN
    RAISE EXCEPTION 'producto % no encontrado', p_id USING ERRCODE = 'P0002';
  END IF;

  IF p_esperado IS NOT NULL AND v_actual <> p_esperado THEN
    RAISE EXCEPTION 'stock de % es %, se esperaba %', p_id, v_actual, p_esperado
      USING ERRCODE = '40001';
  END IF;

  RETURN QUERY
    UPDATE productos SET stock = p_nuevo, updated_at = now()
    WHERE id = p_id
    RETURNING *;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
