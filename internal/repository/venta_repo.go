package repository

import (
	"context"

	"gestorstock/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Venta, error)
	ListRecientes(ctx context.Context, limit int) ([]model.Venta, error)
	ListPendientes(ctx context.Context) ([]model.Venta, error)
	ListByCaja(ctx context.Context, cajaID uint) ([]model.Venta, error)

	CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error)
	ListDetallesTx(ctx context.Context, tx *gorm.DB, ventaID uint) ([]model.VentaDetalle, error)
	CreateDetalleTx(ctx context.Context, tx *gorm.DB, d *model.VentaDetalle) error
	DeleteDetallesTx(ctx context.Context, tx *gorm.DB, ventaID uint) error
	UpdateCabeceraTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	UpdateTotalTx(ctx context.Context, tx *gorm.DB, id uint, total decimal.Decimal) error
	DeleteTx(ctx context.Context, tx *gorm.DB, id uint) error
	// ListPendientesForUpdateTx locks every pending venta not yet assigned to a caja.
	ListPendientesForUpdateTx(ctx context.Context, tx *gorm.DB) ([]model.Venta, error)
	AsignarCajaTx(ctx context.Context, tx *gorm.DB, ids []uint, cajaID uint) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

// detallesEnOrden preloads the lines in insertion order, the order they were sent.
func detallesEnOrden(q *gorm.DB) *gorm.DB {
	return q.Preload("Detalles", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Detalles.Producto")
}

func pendientes(q *gorm.DB) *gorm.DB {
	return q.Where("estado = ? AND caja_id IS NULL", model.EstadoPendiente)
}

func (r *ventaRepo) FindByID(ctx context.Context, id uint) (*model.Venta, error) {
	var v model.Venta
	err := detallesEnOrden(r.db.WithContext(ctx)).First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ListRecientes(ctx context.Context, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := detallesEnOrden(r.db.WithContext(ctx)).
		Order("fecha_y_hora DESC, id DESC").
		Limit(limit).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListPendientes(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := pendientes(r.db.WithContext(ctx)).Order("fecha_y_hora ASC, id ASC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListByCaja(ctx context.Context, cajaID uint) ([]model.Venta, error) {
	var ventas []model.Venta
	err := detallesEnOrden(r.db.WithContext(ctx)).
		Where("caja_id = ?", cajaID).
		Order("fecha_y_hora ASC, id ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *ventaRepo) FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error) {
	var v model.Venta
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ListDetallesTx(ctx context.Context, tx *gorm.DB, ventaID uint) ([]model.VentaDetalle, error) {
	var detalles []model.VentaDetalle
	err := tx.WithContext(ctx).Where("venta_id = ?", ventaID).Order("id ASC").Find(&detalles).Error
	return detalles, err
}

func (r *ventaRepo) CreateDetalleTx(ctx context.Context, tx *gorm.DB, d *model.VentaDetalle) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

func (r *ventaRepo) DeleteDetallesTx(ctx context.Context, tx *gorm.DB, ventaID uint) error {
	return tx.WithContext(ctx).Where("venta_id = ?", ventaID).Delete(&model.VentaDetalle{}).Error
}

func (r *ventaRepo) UpdateCabeceraTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"tipo":              v.Tipo,
		"descuento_general": v.DescuentoGeneral,
		"redondeo":          v.Redondeo,
		"importe_total":     v.ImporteTotal,
	}).Error
}

func (r *ventaRepo) UpdateTotalTx(ctx context.Context, tx *gorm.DB, id uint, total decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id).Update("importe_total", total).Error
}

func (r *ventaRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&model.Venta{}, id).Error
}

func (r *ventaRepo) ListPendientesForUpdateTx(ctx context.Context, tx *gorm.DB) ([]model.Venta, error) {
	var ventas []model.Venta
	err := pendientes(tx.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) AsignarCajaTx(ctx context.Context, tx *gorm.DB, ids []uint, cajaID uint) error {
	return tx.WithContext(ctx).Model(&model.Venta{}).Where("id IN ?", ids).Updates(map[string]interface{}{
		"caja_id": cajaID,
		"estado":  model.EstadoCerrada,
	}).Error
}
