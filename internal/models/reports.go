package models

// Sub-report rows serialized into MonthlyReport JSON columns. Kept as their
// own types so the PDF renderer and the API decode the same shapes.

type TopProduct struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Supplier string `json:"supplier,omitempty"`
	Quantity int    `json:"quantity"`
}

type ClientStat struct {
	Name      string  `json:"name"`
	Purchases int64   `json:"purchases"`
	Spent     float64 `json:"spent"`
}

type NewClient struct {
	Name         string `json:"name"`
	RegisteredAt string `json:"registered_at"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

type LowStockProduct struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Stock         int    `json:"stock"`
	MinStock      int    `json:"min_stock"`
	SoldThisMonth int    `json:"sold_this_month"`
}

type DailySales struct {
	Day   string  `json:"day"` // "02/01" within the month
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type MethodSales struct {
	Method string  `json:"method"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
}

type TypeSales struct {
	Type     string  `json:"type"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

type ActiveRentalSummary struct {
	Client    string  `json:"client"`
	Total     float64 `json:"total"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}
