package repository

import (
	"context"

	"gestorstock/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Caja, error)
	List(ctx context.Context, limit int) ([]model.Caja, error)
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Caja) error
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) FindByID(ctx context.Context, id uint) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) List(ctx context.Context, limit int) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).Order("fecha_y_hora_cierre DESC, id DESC").Limit(limit).Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Caja) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}
