package store

import (
	"time"

	"go-rental-pos/internal/models"
)

// Totals are the running all-time aggregates shown on the dashboard, the
// summary report endpoint and the assistant's context.
type Totals struct {
	TotalSales    int64   `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
	AverageSale   float64 `json:"average_sale"`
	TotalRentals  int64   `json:"total_rentals"`
	RentalRevenue float64 `json:"rental_revenue"`
	ActiveRentals int64   `json:"active_rentals"`
	TotalProducts int64   `json:"total_products"`
	TotalClients  int64   `json:"total_clients"`
}

func (s *Store) Totals() (*Totals, error) {
	var t Totals

	if err := s.db.Model(&models.Sale{}).Count(&t.TotalSales).Error; err != nil {
		return nil, err
	}
	// COALESCE so an empty table yields 0 instead of NULL.
	if err := s.db.Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0)").Scan(&t.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if t.TotalSales > 0 {
		t.AverageSale = t.TotalRevenue / float64(t.TotalSales)
	}

	if err := s.db.Model(&models.Rental{}).Count(&t.TotalRentals).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Rental{}).
		Select("COALESCE(SUM(total), 0)").Scan(&t.RentalRevenue).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Rental{}).
		Where("status = ?", models.RentalStatusActive).Count(&t.ActiveRentals).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Product{}).
		Where("active = ?", true).Count(&t.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Client{}).Count(&t.TotalClients).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// TopSellers returns the all-time best sold products, ties broken by name.
func (s *Store) TopSellers(limit int) ([]models.TopProduct, error) {
	var out []models.TopProduct
	err := s.db.Table("sale_items").
		Select("products.name AS name, products.type AS type, products.supplier AS supplier, SUM(sale_items.quantity) AS quantity").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Group("products.id").
		Order("quantity DESC, products.name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// TopRented returns the all-time most rented products.
func (s *Store) TopRented(limit int) ([]models.TopProduct, error) {
	var out []models.TopProduct
	err := s.db.Table("rental_items").
		Select("products.name AS name, products.type AS type, SUM(rental_items.quantity) AS quantity").
		Joins("JOIN products ON products.id = rental_items.product_id").
		Group("products.id").
		Order("quantity DESC, products.name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// FrequentClients returns the clients with the most purchases.
func (s *Store) FrequentClients(limit int) ([]models.ClientStat, error) {
	var out []models.ClientStat
	err := s.db.Table("sales").
		Select("clients.name AS name, COUNT(sales.id) AS purchases, SUM(sales.total) AS spent").
		Joins("JOIN clients ON clients.id = sales.client_id").
		Group("clients.id").
		Order("purchases DESC, clients.name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// LowStockProducts lists active products at or below their minimum stock.
func (s *Store) LowStockProducts() ([]models.Product, error) {
	var out []models.Product
	err := s.db.Where("active = ? AND stock <= min_stock", true).
		Order("name ASC").Find(&out).Error
	return out, err
}

// ActiveProducts lists the sellable catalog.
func (s *Store) ActiveProducts() ([]models.Product, error) {
	var out []models.Product
	err := s.db.Where("active = ?", true).Order("name ASC").Find(&out).Error
	return out, err
}

// RecentSales returns the newest sales with lines and product details.
func (s *Store) RecentSales(limit int) ([]models.Sale, error) {
	var out []models.Sale
	err := s.db.Preload("Items.Product").Preload("Client").
		Order("sale_time DESC").Limit(limit).Find(&out).Error
	return out, err
}

// RecentRentals returns the newest rentals with lines and product details.
func (s *Store) RecentRentals(limit int) ([]models.Rental, error) {
	var out []models.Rental
	err := s.db.Preload("Items.Product").Preload("Client").
		Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// ClientActivity is one client's purchase and rental history summary.
type ClientActivity struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Purchases    int64      `json:"purchases"`
	Spent        float64    `json:"spent"`
	Rentals      int64      `json:"rentals"`
	LastPurchase *time.Time `json:"last_purchase"`
}

// ClientActivities summarizes every client. Aggregates are collected with two
// grouped queries and merged in memory to avoid a row-multiplying double join.
func (s *Store) ClientActivities() ([]ClientActivity, error) {
	var clients []models.Client
	if err := s.db.Order("name ASC").Find(&clients).Error; err != nil {
		return nil, err
	}

	type saleAgg struct {
		ClientID     uint
		Purchases    int64
		Spent        float64
		LastPurchase *time.Time
	}
	var saleAggs []saleAgg
	if err := s.db.Model(&models.Sale{}).
		Select("client_id, COUNT(id) AS purchases, COALESCE(SUM(total), 0) AS spent, MAX(sale_time) AS last_purchase").
		Group("client_id").
		Scan(&saleAggs).Error; err != nil {
		return nil, err
	}
	sales := make(map[uint]saleAgg, len(saleAggs))
	for _, a := range saleAggs {
		sales[a.ClientID] = a
	}

	type rentalAgg struct {
		ClientID uint
		Rentals  int64
	}
	var rentalAggs []rentalAgg
	if err := s.db.Model(&models.Rental{}).
		Select("client_id, COUNT(id) AS rentals").
		Group("client_id").
		Scan(&rentalAggs).Error; err != nil {
		return nil, err
	}
	rentals := make(map[uint]int64, len(rentalAggs))
	for _, a := range rentalAggs {
		rentals[a.ClientID] = a.Rentals
	}

	out := make([]ClientActivity, 0, len(clients))
	for _, c := range clients {
		activity := ClientActivity{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
		if agg, ok := sales[c.ID]; ok {
			activity.Purchases = agg.Purchases
			activity.Spent = agg.Spent
			activity.LastPurchase = agg.LastPurchase
		}
		activity.Rentals = rentals[c.ID]
		out = append(out, activity)
	}
	return out, nil
}

// RevenueDuring sums sale totals inside [start, end).
func (s *Store) RevenueDuring(start, end time.Time) (float64, error) {
	var total float64
	err := s.db.Model(&models.Sale{}).
		Where("sale_time >= ? AND sale_time < ?", start, end).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	return total, err
}
