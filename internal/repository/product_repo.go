package repository

import (
	"context"

	"go-pos/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	FindLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	UpdateColumns(tx *gorm.DB, id uint, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	// The methods below take the transaction handle so they can run inside WriteTx.
	FindByIDTx(tx *gorm.DB, id uint) (*model.Product, error)
	AdjustStock(tx *gorm.DB, id uint, delta int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// UpdateColumns writes only the given columns, so concurrent stock changes
// are not overwritten by a stale copy of the row.
func (r *productRepo) UpdateColumns(tx *gorm.DB, id uint, columns map[string]interface{}) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(columns).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

// AdjustStock adds delta (negative to deduct) to the stored stock.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uint, delta int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}
