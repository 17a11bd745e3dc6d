package repository

import (
	"context"

	"go-pos/internal/model"

	"gorm.io/gorm"
)

type HeldBillRepository interface {
	Create(ctx context.Context, bill *model.HeldBill) error
	FindAll(ctx context.Context) ([]model.HeldBill, error)
	FindByID(ctx context.Context, id string) (*model.HeldBill, error)
	Delete(ctx context.Context, id string) error
}

type heldBillRepo struct {
	db *gorm.DB
}

func NewHeldBillRepo(db *gorm.DB) HeldBillRepository {
	return &heldBillRepo{db}
}

func (r *heldBillRepo) Create(ctx context.Context, bill *model.HeldBill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *heldBillRepo) FindAll(ctx context.Context) ([]model.HeldBill, error) {
	var bills []model.HeldBill
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&bills).Error
	return bills, err
}

func (r *heldBillRepo) FindByID(ctx context.Context, id string) (*model.HeldBill, error) {
	var bill model.HeldBill
	if err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *heldBillRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.HeldBill{}, "id = ?", id).Error
}
