package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go-pos/internal/model"
	"go-pos/internal/repository"
	"go-pos/internal/ws"
	"go-pos/pkg/database"
	"go-pos/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ict = time.FixedZone("ICT", 7*60*60)

type recordingHub struct {
	mu     sync.Mutex
	events []ws.Event
}

func (h *recordingHub) Publish(evt ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db       *database.DB
	hub      *recordingHub
	products ProductService
	sales    *salesService
	reports  *reportService
	auth     AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver:   database.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "pos.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.HeldBill{},
		&model.User{},
	))

	log := zap.NewNop()
	hub := &recordingHub{}
	productRepo := repository.NewProductRepo(db.DB)
	txRepo := repository.NewTransactionRepo(db.DB)

	return &testEnv{
		db:       db,
		hub:      hub,
		products: NewProductService(productRepo, db, hub, log, "ชิ้น"),
		sales:    NewSalesService(productRepo, txRepo, repository.NewHeldBillRepo(db.DB), db, hub, log, ict).(*salesService),
		reports:  NewReportService(repository.NewReportRepo(db.SQLX()), productRepo, txRepo, ict, 10).(*reportService),
		auth:     NewAuthService(repository.NewUserRepo(db.DB), jwt.NewManager("test-secret", time.Hour), log),
	}
}

func (e *testEnv) product(t *testing.T, barcode, name string, price, cost int64, stock int) *model.Product {
	t.Helper()

	p := decimal.NewFromInt(price)
	c := decimal.NewFromInt(cost)
	product, err := e.products.CreateProduct(context.Background(), &CreateProductRequest{
		Barcode: barcode,
		Name:    name,
		Price:   &p,
		Cost:    &c,
		Stock:   &stock,
	})
	require.NoError(t, err)
	return product
}

func (e *testEnv) stock(t *testing.T, id uint) int {
	t.Helper()

	p, err := e.products.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func line(p *model.Product, qty int) SaleItemRequest {
	return SaleItemRequest{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Cost:        p.Cost,
		Quantity:    qty,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func saleRequest(method string, lines ...SaleItemRequest) *CreateSaleRequest {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
	}
	return &CreateSaleRequest{
		Items:         lines,
		Subtotal:      subtotal,
		Total:         subtotal,
		PaymentMethod: method,
	}
}

// sellAt records a sale as if it happened at the given instant.
func (e *testEnv) sellAt(t *testing.T, at time.Time, method string, lines ...SaleItemRequest) *model.Transaction {
	t.Helper()

	e.sales.now = func() time.Time { return at }
	sale, err := e.sales.CreateSale(context.Background(), saleRequest(method, lines...))
	require.NoError(t, err)
	return sale
}

func decimalEqual(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}
