package assistant

import (
	"fmt"
	"strings"

	"go-rental-pos/internal/models"
	"go-rental-pos/internal/store"
)

// Snapshot is a point-in-time view of the business used both to prompt the
// model and to answer fallback questions. Building it is synchronous and
// always happens, ready or not.
type Snapshot struct {
	Products        []models.Product
	Clients         []store.ClientActivity
	RecentSales     []models.Sale
	RecentRentals   []models.Rental
	Totals          store.Totals
	TopSellers      []models.TopProduct
	TopRented       []models.TopProduct
	FrequentClients []models.ClientStat
	LowStock        []models.Product
	Reports         []models.MonthlyReport
}

func BuildSnapshot(st *store.Store) (*Snapshot, error) {
	snap := &Snapshot{}

	var err error
	if snap.Products, err = st.ActiveProducts(); err != nil {
		return nil, err
	}
	if snap.Clients, err = st.ClientActivities(); err != nil {
		return nil, err
	}
	if snap.RecentSales, err = st.RecentSales(50); err != nil {
		return nil, err
	}
	if snap.RecentRentals, err = st.RecentRentals(30); err != nil {
		return nil, err
	}
	totals, err := st.Totals()
	if err != nil {
		return nil, err
	}
	snap.Totals = *totals
	if snap.TopSellers, err = st.TopSellers(10); err != nil {
		return nil, err
	}
	if snap.TopRented, err = st.TopRented(10); err != nil {
		return nil, err
	}
	if snap.FrequentClients, err = st.FrequentClients(10); err != nil {
		return nil, err
	}
	if snap.LowStock, err = st.LowStockProducts(); err != nil {
		return nil, err
	}
	reports, err := st.ListReports()
	if err != nil {
		return nil, err
	}
	if len(reports) > 6 {
		reports = reports[:6]
	}
	snap.Reports = reports
	return snap, nil
}

// Text renders the snapshot as the plain-text context block fed to the model.
func (s *Snapshot) Text() string {
	var b strings.Builder

	b.WriteString("=== BUSINESS DATA SNAPSHOT ===\n\n")

	b.WriteString("OVERALL STATISTICS:\n")
	fmt.Fprintf(&b, "- Sales: %d (revenue $%.2f, average $%.2f)\n",
		s.Totals.TotalSales, s.Totals.TotalRevenue, s.Totals.AverageSale)
	fmt.Fprintf(&b, "- Rentals: %d (revenue $%.2f, %d currently active)\n",
		s.Totals.TotalRentals, s.Totals.RentalRevenue, s.Totals.ActiveRentals)
	fmt.Fprintf(&b, "- Catalog: %d products, %d clients\n\n",
		s.Totals.TotalProducts, s.Totals.TotalClients)

	b.WriteString("PRODUCTS:\n")
	for _, p := range s.Products {
		fmt.Fprintf(&b, "- [%d] %s (%s) sale $%.2f", p.ID, p.Name, p.Type, p.Price)
		if p.Rentable {
			fmt.Fprintf(&b, ", rental $%.2f/day", p.RentalPricePerDay)
		}
		fmt.Fprintf(&b, " | stock %d (min %d)", p.Stock, p.MinStock)
		if p.Stock <= p.MinStock {
			b.WriteString(" LOW")
		}
		if p.Supplier != "" {
			fmt.Fprintf(&b, " | supplier %s", p.Supplier)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(s.TopSellers) > 0 {
		b.WriteString("TOP SOLD PRODUCTS:\n")
		for i, p := range s.TopSellers {
			fmt.Fprintf(&b, "%d. %s (%s): %d units\n", i+1, p.Name, p.Type, p.Quantity)
		}
		b.WriteString("\n")
	}
	if len(s.TopRented) > 0 {
		b.WriteString("TOP RENTED PRODUCTS:\n")
		for i, p := range s.TopRented {
			fmt.Fprintf(&b, "%d. %s (%s): %d units\n", i+1, p.Name, p.Type, p.Quantity)
		}
		b.WriteString("\n")
	}
	if len(s.LowStock) > 0 {
		b.WriteString("LOW STOCK:\n")
		for _, p := range s.LowStock {
			fmt.Fprintf(&b, "- %s: %d units (minimum %d)\n", p.Name, p.Stock, p.MinStock)
		}
		b.WriteString("\n")
	}

	b.WriteString("CLIENTS:\n")
	for i, c := range s.Clients {
		if i >= 20 {
			break
		}
		last := "never"
		if c.LastPurchase != nil {
			last = c.LastPurchase.Format("02/01/2006")
		}
		fmt.Fprintf(&b, "- [%d] %s: %d purchases ($%.2f), %d rentals, last purchase %s\n",
			c.ID, c.Name, c.Purchases, c.Spent, c.Rentals, last)
	}
	b.WriteString("\n")

	b.WriteString("RECENT RENTALS:\n")
	for i, a := range s.RecentRentals {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "- Rental #%d: %s $%.2f (deposit $%.2f) %s to %s, status %s\n",
			a.ID, a.Client.Name, a.Total, a.Deposit,
			a.StartDate.Format("02/01/2006"), a.EndDate.Format("02/01/2006"), a.Status)
		for _, d := range a.Items {
			fmt.Fprintf(&b, "  %s x%d at $%.2f/day for %d days\n",
				d.Product.Name, d.Quantity, d.PricePerDay, d.Days)
		}
	}
	b.WriteString("\n")

	b.WriteString("RECENT SALES:\n")
	for i, v := range s.RecentSales {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "- Sale #%d: %s $%.2f on %s via %s\n",
			v.ID, v.Client.Name, v.Total, v.SaleTime.Format("02/01/2006 15:04"), v.PaymentMethod)
		for _, d := range v.Items {
			fmt.Fprintf(&b, "  %s x%d at $%.2f\n", d.Product.Name, d.Quantity, d.UnitPrice)
		}
	}
	b.WriteString("\n")

	if len(s.Reports) > 0 {
		b.WriteString("MONTHLY REPORTS:\n")
		for _, r := range s.Reports {
			fmt.Fprintf(&b, "- %s: %d sales ($%.2f), %d rentals ($%.2f)\n",
				r.Month, r.TotalSales, r.TotalRevenue, r.TotalRentals, r.RentalRevenue)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func buildPrompt(contextText, question string) string {
	return fmt.Sprintf(`You are the assistant for a small sales and rental business. You answer questions about products, clients, sales and rentals.

%s

INSTRUCTIONS:
- Answer ONLY from the data above
- Be direct and concise (4-5 lines at most)
- Products are referenced by their [id]
- For rentals, include dates and status
- Do NOT invent information

QUESTION: %s

ANSWER:`, contextText, question)
}
