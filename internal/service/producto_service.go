package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gestorstock/internal/dto"
	"gestorstock/internal/model"
	"gestorstock/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService seeds and reads the catalogue. Stock is never changed here
// after creation: that is InventarioService's job.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

var cien = decimal.NewFromInt(100)

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre requerido", ErrValidacion)
	}

	precioFinal := req.PrecioLista.Mul(decimal.NewFromInt(1).Add(req.UtilidadPorcentual.Div(cien))).Round(2)
	if req.PrecioFinal != nil {
		precioFinal = *req.PrecioFinal
	}

	p := &model.Producto{
		Nombre:             nombre,
		Stock:              req.Stock,
		PrecioLista:        req.PrecioLista,
		UtilidadPorcentual: req.UtilidadPorcentual,
		PrecioFinal:        precioFinal,
	}
	if req.CodigoBarras != nil && strings.TrimSpace(*req.CodigoBarras) != "" {
		cb := strings.TrimSpace(*req.CodigoBarras)
		p.CodigoBarras = &cb
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: codigo de barras duplicado", ErrValidacion)
		}
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: producto %d", ErrNoEncontrado, id)
	}
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:                 p.ID,
		Nombre:             p.Nombre,
		Stock:              p.Stock,
		PrecioLista:        p.PrecioLista,
		UtilidadPorcentual: p.UtilidadPorcentual,
		PrecioFinal:        p.PrecioFinal,
		CodigoBarras:       p.CodigoBarras,
	}
}
