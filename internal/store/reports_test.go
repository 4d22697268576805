package store

import (
	"testing"
	"time"

	"go-rental-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSaleAt inserts a sale with a controlled sale_time, bypassing the
// checkout path so report tests can place transactions on exact instants.
func seedSaleAt(t *testing.T, s *Store, clientID uint, at time.Time, method string, items []models.SaleItem) {
	t.Helper()
	var total float64
	for _, it := range items {
		total += it.Subtotal
	}
	sale := models.Sale{
		ClientID:      clientID,
		UserID:        1,
		Total:         total,
		PaymentMethod: method,
		SaleTime:      at,
		Items:         items,
	}
	require.NoError(t, s.db.Create(&sale).Error)
}

func TestGenerateMonthlyReport(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10, MinStock: 2})

	march := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	seedSaleAt(t, s, client.ID, march, "cash", []models.SaleItem{
		{ProductID: drill.ID, Quantity: 2, UnitPrice: 5, Subtotal: 10},
	})
	seedSaleAt(t, s, client.ID, march.AddDate(0, 0, 1), "card", []models.SaleItem{
		{ProductID: drill.ID, Quantity: 1, UnitPrice: 5, Subtotal: 5},
	})

	report, err := s.GenerateMonthlyReport(march)
	require.NoError(t, err)
	assert.Equal(t, "2026-03", report.ID)
	assert.Equal(t, "March 2026", report.Month)
	assert.Equal(t, int64(2), report.TotalSales)
	assert.Equal(t, 15.0, report.TotalRevenue)
	assert.Equal(t, 7.5, report.AverageSale)

	detail, err := s.GetReportDetail(report.ID)
	require.NoError(t, err)
	require.Len(t, detail.TopProducts, 1)
	assert.Equal(t, "Drill", detail.TopProducts[0].Name)
	assert.Equal(t, 3, detail.TopProducts[0].Quantity)
	require.Len(t, detail.DailySales, 2)
	assert.Equal(t, "15/03", detail.DailySales[0].Day)
	require.Len(t, detail.PaymentMethods, 2)
}

func TestGenerateMonthlyReportRefusesDuplicate(t *testing.T) {
	s := newTestStore(t)

	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	_, err := s.GenerateMonthlyReport(now)
	require.NoError(t, err)

	// Same month, different day: still one snapshot per month.
	_, err = s.GenerateMonthlyReport(now.AddDate(0, 0, 10))
	assert.ErrorIs(t, err, ErrDuplicateReport)

	// Next month is a fresh key.
	_, err = s.GenerateMonthlyReport(now.AddDate(0, 1, 0))
	assert.NoError(t, err)
}

func TestGenerateMonthlyReportWindowBoundary(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	drill := seedProduct(t, s, models.Product{Name: "Drill", Type: "tools", Price: 5, Stock: 10})

	inMarch := time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC)
	firstOfApril := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	seedSaleAt(t, s, client.ID, inMarch, "cash", []models.SaleItem{
		{ProductID: drill.ID, Quantity: 1, UnitPrice: 5, Subtotal: 5},
	})
	// The first instant of April belongs to April's report, not March's.
	seedSaleAt(t, s, client.ID, firstOfApril, "cash", []models.SaleItem{
		{ProductID: drill.ID, Quantity: 1, UnitPrice: 5, Subtotal: 5},
	})

	report, err := s.GenerateMonthlyReport(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.TotalSales)
	assert.Equal(t, 5.0, report.TotalRevenue)
}

func TestGenerateMonthlyReportTieBreak(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	beta := seedProduct(t, s, models.Product{Name: "Beta", Type: "tools", Price: 5, Stock: 10})
	alpha := seedProduct(t, s, models.Product{Name: "Alpha", Type: "tools", Price: 5, Stock: 10})

	at := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	seedSaleAt(t, s, client.ID, at, "cash", []models.SaleItem{
		{ProductID: beta.ID, Quantity: 2, UnitPrice: 5, Subtotal: 10},
		{ProductID: alpha.ID, Quantity: 2, UnitPrice: 5, Subtotal: 10},
	})

	report, err := s.GenerateMonthlyReport(at)
	require.NoError(t, err)
	detail, err := s.GetReportDetail(report.ID)
	require.NoError(t, err)

	require.Len(t, detail.TopProducts, 2)
	assert.Equal(t, "Alpha", detail.TopProducts[0].Name)
	assert.Equal(t, "Beta", detail.TopProducts[1].Name)
}

func TestGenerateMonthlyReportLowStockFilter(t *testing.T) {
	s := newTestStore(t)
	client := seedClient(t, s, "Rosa")
	// Both are at or below minimum, but only one sold anything this month.
	sold := seedProduct(t, s, models.Product{Name: "Sold", Type: "tools", Price: 5, Stock: 1, MinStock: 3})
	idle := seedProduct(t, s, models.Product{Name: "Idle", Type: "tools", Price: 5, Stock: 1, MinStock: 3})
	_ = idle

	at := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	seedSaleAt(t, s, client.ID, at, "cash", []models.SaleItem{
		{ProductID: sold.ID, Quantity: 2, UnitPrice: 5, Subtotal: 10},
	})

	report, err := s.GenerateMonthlyReport(at)
	require.NoError(t, err)
	detail, err := s.GetReportDetail(report.ID)
	require.NoError(t, err)

	require.Len(t, detail.LowStock, 1)
	assert.Equal(t, "Sold", detail.LowStock[0].Name)
	assert.Equal(t, 2, detail.LowStock[0].SoldThisMonth)
}

func TestListAndDeleteReports(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GenerateMonthlyReport(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = s.GenerateMonthlyReport(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	reports, err := s.ListReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)

	require.NoError(t, s.DeleteReport("2026-02"))
	assert.ErrorIs(t, s.DeleteReport("2026-02"), ErrNotFound)

	_, err = s.GetReportDetail("2026-02")
	assert.ErrorIs(t, err, ErrNotFound)
}
