package infra

import (
	"fmt"

	"gestorstock/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the PostgreSQL connection pool and brings the schema up to
// date with Migrate.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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

// Migrate creates / updates all tables and, on PostgreSQL, applies the
// constraints AutoMigrate cannot express. Safe to run on every boot.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Caja{},
		&model.Venta{},
		&model.VentaDetalle{},
		&model.MovimientoStock{},
	); err != nil {
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

// applySchemaPatches runs idempotent DDL statements. Each one is guarded by an
// existence check so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"check ventas.tipo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ventas_tipo') THEN
    ALTER TABLE ventas ADD CONSTRAINT chk_ventas_tipo
      CHECK (tipo IN ('orden_compra', 'factura_b'));
  END IF;
END $$`},
		{"check ventas.estado", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ventas_estado') THEN
    ALTER TABLE ventas ADD CONSTRAINT chk_ventas_estado
      CHECK (estado IN ('pendiente', 'cerrada'));
  END IF;
END $$`},
		{"check venta_detalles.cantidad", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_venta_detalles_cantidad') THEN
    ALTER TABLE venta_detalles ADD CONSTRAINT chk_venta_detalles_cantidad
      CHECK (cantidad > 0);
  END IF;
END $$`},
		// cierre de caja and resumen diario both scan the pending set
		{"partial index ventas pendientes", `
CREATE INDEX IF NOT EXISTS idx_ventas_pendientes
    ON ventas (fecha_y_hora)
    WHERE estado = 'pendiente' AND caja_id IS NULL`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
