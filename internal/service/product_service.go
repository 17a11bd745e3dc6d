package service

import (
	"context"
	"errors"
	"fmt"

	"go-pos/internal/model"
	"go-pos/internal/repository"
	"go-pos/internal/ws"
	"go-pos/pkg/database"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Barcode string           `json:"barcode" validate:"required"`
	Name    string           `json:"name" validate:"required"`
	Price   *decimal.Decimal `json:"price" validate:"required"`
	Cost    *decimal.Decimal `json:"cost"`
	Unit    string           `json:"unit"`
	Stock   *int             `json:"stock" validate:"omitempty,gte=0"`
}

// UpdateProductRequest is partial: nil fields keep their stored value.
type UpdateProductRequest struct {
	Barcode *string          `json:"barcode" validate:"omitempty,min=1"`
	Name    *string          `json:"name" validate:"omitempty,min=1"`
	Price   *decimal.Decimal `json:"price"`
	Cost    *decimal.Decimal `json:"cost"`
	Unit    *string          `json:"unit"`
	Stock   *int             `json:"stock" validate:"omitempty,gte=0"`
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, delta int) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	db          *database.DB
	hub         ws.Publisher
	log         *zap.Logger
	defaultUnit string
}

func NewProductService(pRepo repository.ProductRepository, db *database.DB, hub ws.Publisher, log *zap.Logger, defaultUnit string) ProductService {
	return &productService{
		productRepo: pRepo,
		db:          db,
		hub:         hub,
		log:         log,
		defaultUnit: defaultUnit,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	return notFound(s.productRepo.FindByID(ctx, id))
}

func (s *productService) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return notFound(s.productRepo.FindByBarcode(ctx, barcode))
}

func (s *productService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	// 1. Struct validation
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() || (req.Cost != nil && req.Cost.IsNegative()) {
		return nil, invalid("Price and cost must not be negative")
	}

	// 2. Duplicate barcode
	if err := s.ensureBarcodeFree(ctx, req.Barcode, 0); err != nil {
		return nil, err
	}

	product := &model.Product{
		Barcode: req.Barcode,
		Name:    req.Name,
		Price:   *req.Price,
		Unit:    req.Unit,
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if product.Unit == "" {
		product.Unit = s.defaultUnit
	}

	// 3. Insert; the unique index still guards against a concurrent create.
	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBarcodeExists
		}
		return nil, err
	}

	s.log.Info("product created", zap.Uint("product_id", product.ID), zap.String("barcode", product.Barcode))
	s.publish("product_created", product, fmt.Sprintf("Product '%s' created", product.Name))
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if (req.Price != nil && req.Price.IsNegative()) || (req.Cost != nil && req.Cost.IsNegative()) {
		return nil, invalid("Price and cost must not be negative")
	}

	if req.Barcode != nil {
		if err := s.ensureBarcodeFree(ctx, *req.Barcode, id); err != nil {
			return nil, err
		}
	}

	var updated *model.Product
	err := s.db.WriteTx(ctx, func(tx *gorm.DB) error {
		if _, err := notFound(s.productRepo.FindByIDTx(tx, id)); err != nil {
			return err
		}
		if columns := productColumns(req); len(columns) > 0 {
			if err := s.productRepo.UpdateColumns(tx, id, columns); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.productRepo.FindByIDTx(tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBarcodeExists
		}
		return nil, err
	}

	s.publish("product_updated", updated, fmt.Sprintf("Product '%s' updated", updated.Name))
	return updated, nil
}

// productColumns lists the columns a partial update sets. Stock is only
// included when the request carries it.
func productColumns(req *UpdateProductRequest) map[string]interface{} {
	columns := map[string]interface{}{}
	if req.Barcode != nil {
		columns["barcode"] = *req.Barcode
	}
	if req.Name != nil {
		columns["name"] = *req.Name
	}
	if req.Price != nil {
		columns["price"] = *req.Price
	}
	if req.Cost != nil {
		columns["cost"] = *req.Cost
	}
	if req.Unit != nil {
		columns["unit"] = *req.Unit
	}
	if req.Stock != nil {
		columns["stock"] = *req.Stock
	}
	return columns
}

// DeleteProduct removes the row outright. Sold items keep their snapshot.
func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("product deleted", zap.Uint("product_id", id))
	s.publish("product_deleted", existing, fmt.Sprintf("Product '%s' deleted", existing.Name))
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, id uint, delta int) (*model.Product, error) {
	var updated *model.Product

	err := s.db.WriteTx(ctx, func(tx *gorm.DB) error {
		product, err := notFound(s.productRepo.FindByIDTx(tx, id))
		if err != nil {
			return err
		}
		if product.Stock+delta < 0 {
			return ErrInsufficientStock
		}
		if err := s.productRepo.AdjustStock(tx, id, delta); err != nil {
			return err
		}
		updated, err = s.productRepo.FindByIDTx(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish("stock_adjusted", updated, fmt.Sprintf("Stock of '%s' adjusted by %+d", updated.Name, delta))
	return updated, nil
}

func (s *productService) ensureBarcodeFree(ctx context.Context, barcode string, selfID uint) error {
	existing, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrBarcodeExists
	}
	return nil
}

func (s *productService) publish(action string, p *model.Product, msg string) {
	s.hub.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: action,
		Data: map[string]interface{}{
			"id":      p.ID,
			"barcode": p.Barcode,
			"name":    p.Name,
			"stock":   p.Stock,
			"price":   p.Price,
		},
		Message: msg,
	})
}

// notFound maps GORM's missing-row error to ErrProductNotFound.
func notFound(p *model.Product, err error) (*model.Product, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}
