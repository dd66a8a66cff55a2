// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"regexp"
	"testing"

	"gestorstock/internal/infra"
	"gestorstock/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// NewTestDB opens a private in-memory SQLite database migrated with the
// production schema. A single connection serializes transactions the way row
// locks do on PostgreSQL, so callers must use the tx they are given inside a
// transaction and never the outer *gorm.DB.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeChars.ReplaceAllString(t.Name(), "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.Migrate(db))
	return db
}

// CrearProducto inserts a producto with precio_final = precio_lista = precio.
func CrearProducto(t testing.TB, db *gorm.DB, nombre string, stock int, precio string) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre:      nombre,
		Stock:       stock,
		PrecioLista: decimal.RequireFromString(precio),
		PrecioFinal: decimal.RequireFromString(precio),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Stock re-reads the current stock of a producto.
func Stock(t testing.TB, db *gorm.DB, productoID uint) int {
	t.Helper()
	var p model.Producto
	require.NoError(t, db.First(&p, productoID).Error)
	return p.Stock
}
