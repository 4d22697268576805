package assistant

import (
	"fmt"
	"strings"

	"go-rental-pos/internal/models"
)

// fallbackRule pairs a predicate with a response builder. Rules run in order
// against the lowercased question; the first match wins.
type fallbackRule struct {
	match   func(q string, snap *Snapshot) bool
	respond func(q string, snap *Snapshot) string
}

var fallbackRules = []fallbackRule{
	{match: matchesRentals, respond: answerRentals},
	{match: matchesProduct, respond: answerProduct},
	{match: matchesStats, respond: answerStats},
}

const fallbackHelp = `I can help you with:
- product details and prices
- rentals (active, history, daily rates)
- sales and statistics
- clients
- low stock alerts

What do you need?`

// fallbackAnswer produces a rule-based reply when the model is unavailable.
func fallbackAnswer(question string, snap *Snapshot) string {
	q := strings.ToLower(question)
	for _, rule := range fallbackRules {
		if rule.match(q, snap) {
			return rule.respond(q, snap)
		}
	}
	return fallbackHelp
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func matchesRentals(q string, _ *Snapshot) bool {
	return containsAny(q, "rental", "rent", "hire", "loan")
}

func answerRentals(_ string, snap *Snapshot) string {
	if len(snap.RecentRentals) == 0 {
		return "No rentals registered yet"
	}
	var b strings.Builder
	b.WriteString("Latest rentals:\n")
	for i, a := range snap.RecentRentals {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- #%d: %s | $%.2f\n  %s to %s | %s\n",
			a.ID, a.Client.Name, a.Total,
			a.StartDate.Format("02/01/2006"), a.EndDate.Format("02/01/2006"), a.Status)
	}
	return b.String()
}

func matchesProduct(q string, snap *Snapshot) bool {
	return findProduct(q, snap) != nil
}

func findProduct(q string, snap *Snapshot) *models.Product {
	for i := range snap.Products {
		p := &snap.Products[i]
		if p.Name != "" && strings.Contains(q, strings.ToLower(p.Name)) {
			return p
		}
	}
	return nil
}

func answerProduct(q string, snap *Snapshot) string {
	p := findProduct(q, snap)
	if p == nil {
		return fallbackHelp
	}
	rental := "not available for rental"
	if p.Rentable {
		rental = fmt.Sprintf("rental $%.2f/day", p.RentalPricePerDay)
	}
	return fmt.Sprintf("%s (%s)\nsale $%.2f | %s\nsupplier: %s\nstock: %d units\n%s",
		p.Name, p.Type, p.Price, rental, orUnknown(p.Supplier), p.Stock, p.Description)
}

func matchesStats(q string, _ *Snapshot) bool {
	return containsAny(q, "statistic", "total", "revenue", "how much", "how many")
}

func answerStats(_ string, snap *Snapshot) string {
	t := snap.Totals
	return fmt.Sprintf(`Statistics:
sales: %d ($%.2f)
rentals: %d ($%.2f)
active rentals: %d
products: %d
clients: %d`,
		t.TotalSales, t.TotalRevenue,
		t.TotalRentals, t.RentalRevenue,
		t.ActiveRentals, t.TotalProducts, t.TotalClients)
}

func orUnknown(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
