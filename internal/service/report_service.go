package service

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"go-pos/internal/model"
	"go-pos/internal/repository"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{"ID", "Date", "Subtotal", "Discount", "Total", "Payment Method", "Status"}

type DailyReport struct {
	Date string `json:"date"`
	repository.SalesSummary
	Profit          decimal.Decimal                 `json:"profit"`
	ByPaymentMethod []repository.PaymentMethodTotal `json:"by_payment_method"`
}

type DailySales struct {
	Date       string          `json:"date"`
	BillCount  int64           `json:"bill_count"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type MonthlyReport struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	repository.SalesSummary
	Profit         decimal.Decimal `json:"profit"`
	DailyBreakdown []DailySales    `json:"daily_breakdown"`
}

type ReportService interface {
	Daily(ctx context.Context, date string) (*DailyReport, error)
	Monthly(ctx context.Context, year, month int) (*MonthlyReport, error)
	TopProducts(ctx context.Context, limit, days int) ([]repository.TopProduct, error)
	LowStock(ctx context.Context, threshold *int) ([]model.Product, error)
	ExportCSV(ctx context.Context, startDate, endDate string, w io.Writer) error
}

type reportService struct {
	reportRepo        repository.ReportRepository
	productRepo       repository.ProductRepository
	transactionRepo   repository.TransactionRepository
	loc               *time.Location
	lowStockThreshold int
	now               func() time.Time
}

func NewReportService(
	rRepo repository.ReportRepository,
	pRepo repository.ProductRepository,
	tRepo repository.TransactionRepository,
	loc *time.Location,
	lowStockThreshold int,
) ReportService {
	return &reportService{
		reportRepo:        rRepo,
		productRepo:       pRepo,
		transactionRepo:   tRepo,
		loc:               loc,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *reportService) Daily(ctx context.Context, date string) (*DailyReport, error) {
	if date == "" {
		date = s.now().In(s.loc).Format(dateLayout)
	}
	from, to, err := dayRange(date, s.loc)
	if err != nil {
		return nil, err
	}

	summary, err := s.reportRepo.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.reportRepo.ByPaymentMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	profit, err := s.reportRepo.Profit(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &DailyReport{
		Date:            date,
		SalesSummary:    *summary,
		Profit:          profit.Revenue.Sub(profit.TotalCost),
		ByPaymentMethod: byMethod,
	}, nil
}

func (s *reportService) Monthly(ctx context.Context, year, month int) (*MonthlyReport, error) {
	now := s.now().In(s.loc)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, invalid("month must be between 1 and 12")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	summary, err := s.reportRepo.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	profit, err := s.reportRepo.Profit(ctx, from, to)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.SaleTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Year:           year,
		Month:          month,
		SalesSummary:   *summary,
		Profit:         profit.Revenue.Sub(profit.TotalCost),
		DailyBreakdown: s.breakdown(totals),
	}, nil
}

// breakdown buckets sale totals by calendar day in the store timezone.
// Input is ordered by created_at, so output is ordered by date.
func (s *reportService) breakdown(totals []repository.SaleTotal) []DailySales {
	out := []DailySales{}
	for _, t := range totals {
		day := t.CreatedAt.In(s.loc).Format(dateLayout)
		if n := len(out); n > 0 && out[n-1].Date == day {
			out[n-1].BillCount++
			out[n-1].TotalSales = out[n-1].TotalSales.Add(t.Total)
			continue
		}
		out = append(out, DailySales{Date: day, BillCount: 1, TotalSales: t.Total})
	}
	return out
}

func (s *reportService) TopProducts(ctx context.Context, limit, days int) ([]repository.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)
	return s.reportRepo.TopProducts(ctx, since, limit)
}

func (s *reportService) LowStock(ctx context.Context, threshold *int) ([]model.Product, error) {
	t := s.lowStockThreshold
	if threshold != nil {
		t = *threshold
	}
	return s.productRepo.FindLowStock(ctx, t)
}

// ExportCSV writes completed transactions, newest first. Both dates are
// optional and inclusive.
func (s *reportService) ExportCSV(ctx context.Context, startDate, endDate string, w io.Writer) error {
	filter := repository.TransactionFilter{Status: model.StatusCompleted}
	if startDate != "" {
		from, _, err := dayRange(startDate, s.loc)
		if err != nil {
			return err
		}
		filter.From = from
	}
	if endDate != "" {
		_, to, err := dayRange(endDate, s.loc)
		if err != nil {
			return err
		}
		filter.To = to
	}

	transactions, err := s.transactionRepo.FindAll(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, t := range transactions {
		record := []string{
			t.ID,
			t.CreatedAt.In(s.loc).Format("2006-01-02 15:04:05"),
			t.Subtotal.String(),
			t.Discount.String(),
			t.Total.String(),
			t.PaymentMethod,
			string(t.Status),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// dayRange returns [midnight, next midnight) of a YYYY-MM-DD date in loc.
func dayRange(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("invalid date format, use YYYY-MM-DD")
	}
	return day, day.AddDate(0, 0, 1), nil
}
