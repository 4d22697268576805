package store

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"go-rental-pos/internal/models"

	"gorm.io/gorm"
)

// MonthKey formats the report primary key for a point in time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// monthWindow returns [first instant of t's month, first instant of the next
// month). AddDate handles the December -> January rollover.
func monthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// GenerateMonthlyReport computes and stores the snapshot for the month
// containing now. It refuses to regenerate: a second call for the same month
// fails with ErrDuplicateReport and leaves the stored report untouched.
//
// Top-10 rankings are tie-broken lexicographically by name so the snapshot is
// deterministic regardless of the query engine.
func (s *Store) GenerateMonthlyReport(now time.Time) (*models.MonthlyReport, error) {
	key := MonthKey(now)

	var existing models.MonthlyReport
	err := s.db.First(&existing, "id = ?", key).Error
	if err == nil {
		return nil, ErrDuplicateReport
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	start, end := monthWindow(now)

	var sales []models.Sale
	if err := s.db.Where("sale_time >= ? AND sale_time < ?", start, end).Find(&sales).Error; err != nil {
		return nil, err
	}
	totalSales := int64(len(sales))
	var totalRevenue float64
	for _, v := range sales {
		totalRevenue += v.Total
	}
	var averageSale float64
	if totalSales > 0 {
		averageSale = totalRevenue / float64(totalSales)
	}

	var rentals []models.Rental
	if err := s.db.Where("created_at >= ? AND created_at < ?", start, end).Find(&rentals).Error; err != nil {
		return nil, err
	}
	totalRentals := int64(len(rentals))
	var rentalRevenue float64
	for _, a := range rentals {
		rentalRevenue += a.Total
	}

	var topProducts []models.TopProduct
	if err := s.db.Table("sale_items").
		Select("products.name AS name, products.type AS type, products.supplier AS supplier, SUM(sale_items.quantity) AS quantity").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_time >= ? AND sales.sale_time < ?", start, end).
		Group("products.id").
		Order("quantity DESC, products.name ASC").
		Limit(10).
		Scan(&topProducts).Error; err != nil {
		return nil, err
	}

	var topRented []models.TopProduct
	if err := s.db.Table("rental_items").
		Select("products.name AS name, products.type AS type, SUM(rental_items.quantity) AS quantity").
		Joins("JOIN products ON products.id = rental_items.product_id").
		Joins("JOIN rentals ON rentals.id = rental_items.rental_id").
		Where("rentals.created_at >= ? AND rentals.created_at < ?", start, end).
		Group("products.id").
		Order("quantity DESC, products.name ASC").
		Limit(10).
		Scan(&topRented).Error; err != nil {
		return nil, err
	}

	var topClients []models.ClientStat
	if err := s.db.Table("sales").
		Select("clients.name AS name, COUNT(sales.id) AS purchases, SUM(sales.total) AS spent").
		Joins("JOIN clients ON clients.id = sales.client_id").
		Where("sales.sale_time >= ? AND sales.sale_time < ?", start, end).
		Group("clients.id").
		Order("purchases DESC, clients.name ASC").
		Limit(10).
		Scan(&topClients).Error; err != nil {
		return nil, err
	}

	var registered []models.Client
	if err := s.db.Where("created_at >= ? AND created_at < ?", start, end).Find(&registered).Error; err != nil {
		return nil, err
	}
	newClients := make([]models.NewClient, 0, len(registered))
	for _, c := range registered {
		newClients = append(newClients, models.NewClient{
			Name:         c.Name,
			RegisteredAt: c.CreatedAt.Format("02/01/2006"),
			Phone:        orDefault(c.Phone, "N/A"),
			Email:        orDefault(c.Email, "N/A"),
		})
	}

	// At-or-below minimum stock AND at least one unit sold this month.
	var lowStock []models.LowStockProduct
	if err := s.db.Table("products").
		Select("products.name AS name, products.type AS type, products.stock AS stock, products.min_stock AS min_stock, SUM(sale_items.quantity) AS sold_this_month").
		Joins("JOIN sale_items ON sale_items.product_id = products.id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("products.active = ?", true).
		Where("products.stock <= products.min_stock").
		Where("sales.sale_time >= ? AND sales.sale_time < ?", start, end).
		Group("products.id").
		Order("products.name ASC").
		Scan(&lowStock).Error; err != nil {
		return nil, err
	}

	dailySales := bucketSalesByDay(sales)
	methodSales := bucketSalesByMethod(sales)

	var salesByType []models.TypeSales
	if err := s.db.Table("sale_items").
		Select("products.type AS type, SUM(sale_items.quantity) AS quantity, SUM(sale_items.subtotal) AS total").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_time >= ? AND sales.sale_time < ?", start, end).
		Group("products.type").
		Order("products.type ASC").
		Scan(&salesByType).Error; err != nil {
		return nil, err
	}

	var activeInWindow []models.Rental
	if err := s.db.Preload("Client").
		Where("status = ? AND created_at >= ? AND created_at < ?", models.RentalStatusActive, start, end).
		Find(&activeInWindow).Error; err != nil {
		return nil, err
	}
	activeRentals := make([]models.ActiveRentalSummary, 0, len(activeInWindow))
	for _, a := range activeInWindow {
		activeRentals = append(activeRentals, models.ActiveRentalSummary{
			Client:    a.Client.Name,
			Total:     a.Total,
			StartDate: a.StartDate.Format("02/01/2006"),
			EndDate:   a.EndDate.Format("02/01/2006"),
		})
	}

	// The products needing the most frequent restocking are the head of the
	// best-seller list.
	highDemand := topProducts
	if len(highDemand) > 5 {
		highDemand = highDemand[:5]
	}

	report := models.MonthlyReport{
		ID:                 key,
		Month:              now.Format("January 2006"),
		TotalSales:         totalSales,
		TotalRevenue:       totalRevenue,
		AverageSale:        averageSale,
		TotalRentals:       totalRentals,
		RentalRevenue:      rentalRevenue,
		TopProductsJSON:    mustJSON(topProducts),
		TopRentedJSON:      mustJSON(topRented),
		TopClientsJSON:     mustJSON(topClients),
		NewClientsJSON:     mustJSON(newClients),
		LowStockJSON:       mustJSON(lowStock),
		DailySalesJSON:     mustJSON(dailySales),
		PaymentMethodsJSON: mustJSON(methodSales),
		HighDemandJSON:     mustJSON(highDemand),
		SalesByTypeJSON:    mustJSON(salesByType),
		ActiveRentalsJSON:  mustJSON(activeRentals),
		GeneratedAt:        time.Now(),
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func bucketSalesByDay(sales []models.Sale) []models.DailySales {
	byDay := map[string]*models.DailySales{}
	for _, v := range sales {
		day := v.SaleTime.Format("02/01")
		b, ok := byDay[day]
		if !ok {
			b = &models.DailySales{Day: day}
			byDay[day] = b
		}
		b.Count++
		b.Total += v.Total
	}
	out := make([]models.DailySales, 0, len(byDay))
	for _, b := range byDay {
		out = append(out, *b)
	}
	// Zero-padded day-first keys within a single month sort correctly as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func bucketSalesByMethod(sales []models.Sale) []models.MethodSales {
	byMethod := map[string]*models.MethodSales{}
	var order []string
	for _, v := range sales {
		b, ok := byMethod[v.PaymentMethod]
		if !ok {
			b = &models.MethodSales{Method: v.PaymentMethod}
			byMethod[v.PaymentMethod] = b
			order = append(order, v.PaymentMethod)
		}
		b.Count++
		b.Total += v.Total
	}
	out := make([]models.MethodSales, 0, len(order))
	for _, m := range order {
		out = append(out, *byMethod[m])
	}
	return out
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ReportDetail is a stored report with its JSON sub-reports decoded for the
// API and the PDF renderer.
type ReportDetail struct {
	models.MonthlyReport
	TopProducts    []models.TopProduct          `json:"top_products"`
	TopRented      []models.TopProduct          `json:"top_rented"`
	TopClients     []models.ClientStat          `json:"top_clients"`
	NewClients     []models.NewClient           `json:"new_clients"`
	LowStock       []models.LowStockProduct     `json:"low_stock"`
	DailySales     []models.DailySales          `json:"daily_sales"`
	PaymentMethods []models.MethodSales         `json:"payment_methods"`
	HighDemand     []models.TopProduct          `json:"high_demand"`
	SalesByType    []models.TypeSales           `json:"sales_by_type"`
	ActiveRentals  []models.ActiveRentalSummary `json:"active_rentals"`
}

// GetReportDetail fetches one report and decodes its sub-reports.
func (s *Store) GetReportDetail(id string) (*ReportDetail, error) {
	var report models.MonthlyReport
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}

	detail := ReportDetail{MonthlyReport: report}
	decodeJSON(report.TopProductsJSON, &detail.TopProducts)
	decodeJSON(report.TopRentedJSON, &detail.TopRented)
	decodeJSON(report.TopClientsJSON, &detail.TopClients)
	decodeJSON(report.NewClientsJSON, &detail.NewClients)
	decodeJSON(report.LowStockJSON, &detail.LowStock)
	decodeJSON(report.DailySalesJSON, &detail.DailySales)
	decodeJSON(report.PaymentMethodsJSON, &detail.PaymentMethods)
	decodeJSON(report.HighDemandJSON, &detail.HighDemand)
	decodeJSON(report.SalesByTypeJSON, &detail.SalesByType)
	decodeJSON(report.ActiveRentalsJSON, &detail.ActiveRentals)
	return &detail, nil
}

func decodeJSON(raw string, out interface{}) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), out)
}

// ListReports returns the stored snapshots, newest first.
func (s *Store) ListReports() ([]models.MonthlyReport, error) {
	var reports []models.MonthlyReport
	err := s.db.Order("generated_at DESC").Find(&reports).Error
	return reports, err
}

// DeleteReport drops a snapshot. Reports are derived artifacts, so nothing
// else is touched.
func (s *Store) DeleteReport(id string) error {
	res := s.db.Delete(&models.MonthlyReport{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
