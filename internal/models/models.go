package models

import (
	"time"
)

// User - The person operating the till (and asking the assistant questions)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Name         string    `gorm:"size:100" json:"name"`
	Role         string    `json:"role"` // 'admin', 'staff'
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The inventory. Every unit can be sold; rentable units can also
// go out on a per-day rental.
type Product struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:100" json:"name"`
	Type              string    `gorm:"size:50" json:"type"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	RentalPricePerDay float64   `json:"rental_price_per_day"`
	Rentable          bool      `json:"rentable"`
	Stock             int       `json:"stock"`
	MinStock          int       `gorm:"default:5" json:"min_stock"`
	Supplier          string    `gorm:"size:100" json:"supplier"`
	ImageURL          string    `json:"image_url"`
	Active            bool      `gorm:"default:true" json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}

// Client - A customer. Deleting a client cascades to their sales and rentals.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Email     string    `gorm:"size:100" json:"email"`
	Address   string    `gorm:"size:200" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	Sales     []Sale    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Rentals   []Rental  `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

// Sale - The transaction header. Immutable once committed except via delete.
type Sale struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ClientID      uint       `json:"client_id"`
	Client        Client     `json:"-"`
	UserID        uint       `json:"user_id"` // Who processed it
	Total         float64    `json:"total"`
	PaymentMethod string     `gorm:"size:50" json:"payment_method"`
	SaleTime      time.Time  `json:"sale_time"`
	Items         []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
}

// SaleItem - One product line within a sale
type SaleItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SaleID    uint    `json:"sale_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `json:"product"` // Preload product details
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // Snapshot of price at time of sale
	Subtotal  float64 `json:"subtotal"`
}

// Rental status values. A rental moves active -> finished exactly once.
const (
	RentalStatusActive   = "active"
	RentalStatusFinished = "finished"
)

// Rental - Equipment out on loan. Stock comes back when the rental is
// finalized or deleted, never both.
type Rental struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ClientID      uint         `json:"client_id"`
	Client        Client       `json:"-"`
	UserID        uint         `json:"user_id"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       time.Time    `json:"end_date"`
	ReturnedAt    *time.Time   `json:"returned_at"`
	Total         float64      `json:"total"`
	Deposit       float64      `json:"deposit"`
	Status        string       `gorm:"size:50;default:active" json:"status"`
	PaymentMethod string       `gorm:"size:50" json:"payment_method"`
	Notes         string       `json:"notes"`
	CreatedAt     time.Time    `json:"created_at"`
	Items         []RentalItem `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"items"`
}

// RentalItem - One product line within a rental
type RentalItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	RentalID    uint    `json:"rental_id"`
	ProductID   uint    `json:"product_id"`
	Product     Product `json:"product"`
	Quantity    int     `json:"quantity"`
	PricePerDay float64 `json:"price_per_day"` // Snapshot at booking time
	Days        int     `json:"days"`
	Subtotal    float64 `json:"subtotal"`
}

// MonthlyReport - An immutable snapshot of one calendar month. Keyed by
// "YYYY-MM"; at most one per month. Sub-reports are serialized JSON so later
// catalog or sales changes never rewrite a past report.
type MonthlyReport struct {
	ID            string  `gorm:"primaryKey;size:7" json:"id"` // e.g. "2024-03"
	Month         string  `gorm:"size:50" json:"month"`        // e.g. "March 2024"
	TotalSales    int64   `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
	AverageSale   float64 `json:"average_sale"`
	TotalRentals  int64   `json:"total_rentals"`
	RentalRevenue float64 `json:"rental_revenue"`

	TopProductsJSON    string `gorm:"type:text" json:"-"`
	TopRentedJSON      string `gorm:"type:text" json:"-"`
	TopClientsJSON     string `gorm:"type:text" json:"-"`
	NewClientsJSON     string `gorm:"type:text" json:"-"`
	LowStockJSON       string `gorm:"type:text" json:"-"`
	DailySalesJSON     string `gorm:"type:text" json:"-"`
	PaymentMethodsJSON string `gorm:"type:text" json:"-"`
	HighDemandJSON     string `gorm:"type:text" json:"-"`
	SalesByTypeJSON    string `gorm:"type:text" json:"-"`
	ActiveRentalsJSON  string `gorm:"type:text" json:"-"`

	GeneratedAt time.Time `json:"generated_at"`
}
