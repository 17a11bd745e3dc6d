package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-pos/internal/model"
	"go-pos/internal/repository"
	"go-pos/internal/ws"
	"go-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID   uint            `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CreateSaleRequest totals are computed by the till and stored as sent.
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"dive"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Discount      decimal.Decimal   `json:"discount"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	CashReceived  *decimal.Decimal  `json:"cash_received"`
	ChangeAmount  *decimal.Decimal  `json:"change_amount"`
}

type HoldBillRequest struct {
	CartData model.CartData `json:"cart_data"`
	Note     string         `json:"note"`
}

type SalesFilter struct {
	Date   string // YYYY-MM-DD in the store timezone
	Status string
}

type SalesService interface {
	ListSales(ctx context.Context, filter SalesFilter) ([]model.Transaction, error)
	GetSale(ctx context.Context, id string) (*model.Transaction, error)
	CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Transaction, error)
	VoidSale(ctx context.Context, id string) error

	HoldBill(ctx context.Context, req *HoldBillRequest) (string, error)
	ListHeldBills(ctx context.Context) ([]model.HeldBill, error)
	GetHeldBill(ctx context.Context, id string) (*model.HeldBill, error)
	DeleteHeldBill(ctx context.Context, id string) error
}

type salesService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	heldBillRepo    repository.HeldBillRepository
	db              *database.DB
	hub             ws.Publisher
	log             *zap.Logger
	loc             *time.Location
	now             func() time.Time
}

func NewSalesService(
	pRepo repository.ProductRepository,
	tRepo repository.TransactionRepository,
	hRepo repository.HeldBillRepository,
	db *database.DB,
	hub ws.Publisher,
	log *zap.Logger,
	loc *time.Location,
) SalesService {
	return &salesService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		heldBillRepo:    hRepo,
		db:              db,
		hub:             hub,
		log:             log,
		loc:             loc,
		now:             time.Now,
	}
}

func (s *salesService) ListSales(ctx context.Context, filter SalesFilter) ([]model.Transaction, error) {
	var f repository.TransactionFilter

	if filter.Date != "" {
		from, to, err := dayRange(filter.Date, s.loc)
		if err != nil {
			return nil, err
		}
		f.From, f.To = from, to
	}
	if filter.Status != "" {
		status := model.TransactionStatus(filter.Status)
		if status != model.StatusCompleted && status != model.StatusVoided {
			return nil, invalid("status must be 'completed' or 'voided'")
		}
		f.Status = status
	}

	return s.transactionRepo.FindAll(ctx, f)
}

func (s *salesService) GetSale(ctx context.Context, id string) (*model.Transaction, error) {
	t, err := s.transactionRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	return t, err
}

func (s *salesService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Transaction, error) {
	// 1. Request shape
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.PaymentMethod == "" {
		return nil, ErrPaymentMethod
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Stock check for every line before anything is written.
	// The check runs outside the write transaction below. Lines for the
	// same product draw on one remaining balance.
	var stockErrors []string
	remaining := make(map[uint]int, len(req.Items))
	names := make(map[uint]string, len(req.Items))
	for _, item := range req.Items {
		left, seen := remaining[item.ProductID]
		if !seen {
			product, err := s.productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					stockErrors = append(stockErrors, fmt.Sprintf("Product not found: %s", item.ProductName))
					continue
				}
				return nil, err
			}
			left = product.Stock
			names[item.ProductID] = product.Name
		}
		if left < item.Quantity {
			stockErrors = append(stockErrors, fmt.Sprintf("%s: stock %d but requested %d", names[item.ProductID], left, item.Quantity))
		} else {
			left -= item.Quantity
		}
		remaining[item.ProductID] = left
	}
	if len(stockErrors) > 0 {
		return nil, &StockError{Details: stockErrors}
	}

	// 3. Id
	txn := &model.Transaction{
		ID:            uuid.New().String(),
		Subtotal:      req.Subtotal,
		Discount:      req.Discount,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		CashReceived:  nonZero(req.CashReceived),
		ChangeAmount:  nonZero(req.ChangeAmount),
		Status:        model.StatusCompleted,
		CreatedAt:     s.now().UTC(),
	}

	// 4. Transaction row, items and stock deduction commit together.
	err := s.db.WriteTx(ctx, func(tx *gorm.DB) error {
		if err := s.transactionRepo.Create(tx, txn); err != nil {
			return err
		}

		for _, line := range req.Items {
			cost := line.Cost
			product, err := s.productRepo.FindByIDTx(tx, line.ProductID)
			if err == nil {
				cost = product.Cost
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			item := &model.TransactionItem{
				TransactionID: txn.ID,
				ProductID:     line.ProductID,
				ProductName:   line.ProductName,
				Price:         line.Price,
				Cost:          cost,
				Quantity:      line.Quantity,
				Subtotal:      line.Subtotal,
			}
			if err := s.transactionRepo.CreateItem(tx, item); err != nil {
				return err
			}

			if err := s.productRepo.AdjustStock(tx, line.ProductID, -line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("sale failed", zap.String("transaction_id", txn.ID), zap.Error(err))
		return nil, err
	}

	// 5. Read back what was persisted
	saved, err := s.GetSale(ctx, txn.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("sale completed",
		zap.String("transaction_id", saved.ID),
		zap.Int("lines", len(saved.Items)),
		zap.String("total", saved.Total.String()),
		zap.String("payment_method", saved.PaymentMethod),
	)
	s.hub.Publish(ws.Event{
		Type:    ws.EventSaleCompleted,
		Action:  "sale_created",
		Data:    saved,
		Message: fmt.Sprintf("Sale %s completed (%s)", saved.ID, saved.Total.StringFixed(2)),
	})

	return saved, nil
}

func (s *salesService) VoidSale(ctx context.Context, id string) error {
	txn, err := s.GetSale(ctx, id)
	if err != nil {
		return err
	}
	if txn.Status == model.StatusVoided {
		return ErrAlreadyVoided
	}

	// The status flip is the guard: only the caller that moves the row out
	// of completed restores stock.
	err = s.db.WriteTx(ctx, func(tx *gorm.DB) error {
		flipped, err := s.transactionRepo.MarkVoided(tx, id)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrAlreadyVoided
		}

		items, err := s.transactionRepo.FindItems(tx, id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.productRepo.AdjustStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrAlreadyVoided) {
		return err
	}
	if err != nil {
		s.log.Error("void failed", zap.String("transaction_id", id), zap.Error(err))
		return err
	}

	s.log.Info("sale voided", zap.String("transaction_id", id))
	s.hub.Publish(ws.Event{
		Type:    ws.EventSaleVoided,
		Action:  "sale_voided",
		Data:    map[string]interface{}{"id": id, "items": txn.Items},
		Message: fmt.Sprintf("Sale %s voided", id),
	})
	return nil
}

func (s *salesService) HoldBill(ctx context.Context, req *HoldBillRequest) (string, error) {
	bill := &model.HeldBill{
		ID:        uuid.New().String(),
		CartData:  req.CartData,
		CreatedAt: s.now().UTC(),
	}
	if req.CartData.Items == nil {
		bill.CartData.Items = []model.CartItem{}
	}
	if req.Note != "" {
		note := req.Note
		bill.Note = &note
	}

	if err := s.heldBillRepo.Create(ctx, bill); err != nil {
		return "", err
	}
	return bill.ID, nil
}

func (s *salesService) ListHeldBills(ctx context.Context) ([]model.HeldBill, error) {
	return s.heldBillRepo.FindAll(ctx)
}

func (s *salesService) GetHeldBill(ctx context.Context, id string) (*model.HeldBill, error) {
	bill, err := s.heldBillRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHeldBillNotFound
	}
	return bill, err
}

// DeleteHeldBill is idempotent: removing a missing bill is not an error.
func (s *salesService) DeleteHeldBill(ctx context.Context, id string) error {
	return s.heldBillRepo.Delete(ctx, id)
}

// nonZero treats zero like absent, so non-cash sales store NULL.
func nonZero(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}
