package repository

import (
	"context"

	"gestorstock/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uint) (*model.Producto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error)

	// Used inside transactions: callers must pass the tx instance.
	// FindByIDForUpdateTx takes a row lock held until the tx ends.
	FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Producto, error)
	UpdateStockTx(ctx context.Context, tx *gorm.DB, id uint, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uint) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ?", barcode).First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Producto, error) {
	var p model.Producto
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

// UpdateStockTx applies delta in a single UPDATE so the read-modify-write
// happens inside the database, never in Go.
func (r *productoRepo) UpdateStockTx(ctx context.Context, tx *gorm.DB, id uint, delta int) error {
	return tx.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}
