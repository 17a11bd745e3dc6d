package repository

import (
	"context"
	"time"

	"go-pos/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SalesSummary aggregates completed transactions in a time range.
type SalesSummary struct {
	BillCount     int64           `db:"bill_count" json:"bill_count"`
	TotalSales    decimal.Decimal `db:"total_sales" json:"total_sales"`
	TotalDiscount decimal.Decimal `db:"total_discount" json:"total_discount"`
}

type ProfitData struct {
	Revenue   decimal.Decimal `db:"revenue"`
	TotalCost decimal.Decimal `db:"total_cost"`
}

type PaymentMethodTotal struct {
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	Count         int64           `db:"count" json:"count"`
	Total         decimal.Decimal `db:"total" json:"total"`
}

type TopProduct struct {
	ProductID     uint            `db:"product_id" json:"product_id"`
	ProductName   string          `db:"product_name" json:"product_name"`
	TotalQuantity int64           `db:"total_quantity" json:"total_quantity"`
	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	TotalProfit   decimal.Decimal `db:"total_profit" json:"total_profit"`
}

// SaleTotal is one completed transaction reduced to what the per-day
// breakdown needs. Bucketing happens in Go so the store timezone applies
// on every database dialect.
type SaleTotal struct {
	CreatedAt time.Time       `db:"created_at"`
	Total     decimal.Decimal `db:"total"`
}

// ReportRepository runs read-only aggregate queries. Ranges are [from, to).
type ReportRepository interface {
	Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	Profit(ctx context.Context, from, to time.Time) (*ProfitData, error)
	ByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentMethodTotal, error)
	SaleTotals(ctx context.Context, from, to time.Time) ([]SaleTotal, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error)
}

type reportRepo struct {
	db *sqlx.DB
}

func NewReportRepo(db *sqlx.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	query := r.db.Rebind(`
		SELECT
			COUNT(*) AS bill_count,
			COALESCE(SUM(total), 0) AS total_sales,
			COALESCE(SUM(discount), 0) AS total_discount
		FROM transactions
		WHERE status = ? AND created_at >= ? AND created_at < ?`)

	var s SalesSummary
	if err := r.db.GetContext(ctx, &s, query, model.StatusCompleted, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	s.TotalSales = money(s.TotalSales)
	s.TotalDiscount = money(s.TotalDiscount)
	return &s, nil
}

func (r *reportRepo) Profit(ctx context.Context, from, to time.Time) (*ProfitData, error) {
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(ti.subtotal), 0) AS revenue,
			COALESCE(SUM(ti.cost * ti.quantity), 0) AS total_cost
		FROM transaction_items ti
		JOIN transactions t ON ti.transaction_id = t.id
		WHERE t.status = ? AND t.created_at >= ? AND t.created_at < ?`)

	var p ProfitData
	if err := r.db.GetContext(ctx, &p, query, model.StatusCompleted, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	p.Revenue = money(p.Revenue)
	p.TotalCost = money(p.TotalCost)
	return &p, nil
}

func (r *reportRepo) ByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentMethodTotal, error) {
	query := r.db.Rebind(`
		SELECT
			payment_method,
			COUNT(*) AS count,
			COALESCE(SUM(total), 0) AS total
		FROM transactions
		WHERE status = ? AND created_at >= ? AND created_at < ?
		GROUP BY payment_method
		ORDER BY payment_method`)

	out := []PaymentMethodTotal{}
	if err := r.db.SelectContext(ctx, &out, query, model.StatusCompleted, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Total = money(out[i].Total)
	}
	return out, nil
}

func (r *reportRepo) SaleTotals(ctx context.Context, from, to time.Time) ([]SaleTotal, error) {
	query := r.db.Rebind(`
		SELECT created_at, total
		FROM transactions
		WHERE status = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at`)

	out := []SaleTotal{}
	if err := r.db.SelectContext(ctx, &out, query, model.StatusCompleted, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Total = money(out[i].Total)
	}
	return out, nil
}

func (r *reportRepo) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error) {
	query := r.db.Rebind(`
		SELECT
			ti.product_id,
			ti.product_name,
			SUM(ti.quantity) AS total_quantity,
			COALESCE(SUM(ti.subtotal), 0) AS total_revenue,
			COALESCE(SUM((ti.price - ti.cost) * ti.quantity), 0) AS total_profit
		FROM transaction_items ti
		JOIN transactions t ON ti.transaction_id = t.id
		WHERE t.status = ? AND t.created_at >= ?
		GROUP BY ti.product_id, ti.product_name
		ORDER BY total_quantity DESC, ti.product_name ASC
		LIMIT ?`)

	out := []TopProduct{}
	if err := r.db.SelectContext(ctx, &out, query, model.StatusCompleted, since.UTC(), limit); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].TotalRevenue = money(out[i].TotalRevenue)
		out[i].TotalProfit = money(out[i].TotalProfit)
	}
	return out, nil
}

// money rounds an aggregate back to cents. SQLite sums decimal columns as
// REAL, which leaves binary float error in the result.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
