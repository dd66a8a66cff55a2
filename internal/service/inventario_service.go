package service

import (
	"context"
	"errors"
	"fmt"

	"gestorstock/internal/model"
	"gestorstock/internal/repository"

	"gorm.io/gorm"
)

// InventarioService is the only writer of producto stock. Both operations
// must run inside the caller's transaction so stock moves in lock-step with
// the venta rows.
type InventarioService interface {
	// ReservarStockTx locks the producto row, decrements its stock by cantidad and
	// returns the producto as it is after the decrement. Insufficient stock is
	// not an error: the returned advertencia is non-empty and the stock goes negative.
	ReservarStockTx(ctx context.Context, tx *gorm.DB, productoID uint, cantidad int, ventaID uint) (*model.Producto, string, error)
	// LiberarStockTx gives back cantidad units previously reserved for ventaID.
	LiberarStockTx(ctx context.Context, tx *gorm.DB, productoID uint, cantidad int, ventaID uint) error
	ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, error)
}

type inventarioService struct {
	repo    repository.ProductoRepository
	movRepo repository.MovimientoStockRepository
}

func NewInventarioService(repo repository.ProductoRepository, movRepo repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{repo: repo, movRepo: movRepo}
}

func (s *inventarioService) ReservarStockTx(ctx context.Context, tx *gorm.DB, productoID uint, cantidad int, ventaID uint) (*model.Producto, string, error) {
	p, err := s.bloquear(ctx, tx, productoID)
	if err != nil {
		return nil, "", err
	}

	stockAntes := p.Stock
	var advertencia string
	if stockAntes < cantidad {
		advertencia = fmt.Sprintf("Stock insuficiente para '%s'. Quedó en %d.", p.Nombre, stockAntes-cantidad)
	}

	if err := s.mover(ctx, tx, p, -cantidad, model.MovimientoVenta, ventaID); err != nil {
		return nil, "", err
	}
	return p, advertencia, nil
}

func (s *inventarioService) LiberarStockTx(ctx context.Context, tx *gorm.DB, productoID uint, cantidad int, ventaID uint) error {
	p, err := s.bloquear(ctx, tx, productoID)
	if err != nil {
		return err
	}
	return s.mover(ctx, tx, p, cantidad, model.MovimientoLiberacion, ventaID)
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, error) {
	return s.movRepo.List(ctx, filter)
}

func (s *inventarioService) bloquear(ctx context.Context, tx *gorm.DB, productoID uint) (*model.Producto, error) {
	p, err := s.repo.FindByIDForUpdateTx(ctx, tx, productoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: producto %d", ErrNoEncontrado, productoID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// mover applies delta to the locked producto and records the movimiento.
func (s *inventarioService) mover(ctx context.Context, tx *gorm.DB, p *model.Producto, delta int, tipo string, ventaID uint) error {
	if err := s.repo.UpdateStockTx(ctx, tx, p.ID, delta); err != nil {
		return fmt.Errorf("error actualizando stock de %s: %w", p.Nombre, err)
	}

	ref := ventaID
	mov := &model.MovimientoStock{
		ProductoID:    p.ID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: p.Stock,
		StockNuevo:    p.Stock + delta,
		Motivo:        fmt.Sprintf("Venta #%d", ventaID),
		VentaID:       &ref,
	}
	if err := s.movRepo.CreateTx(ctx, tx, mov); err != nil {
		return err
	}
	p.Stock += delta
	return nil
}
