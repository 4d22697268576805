package pdfgen

import (
	"fmt"
	"io"
	"strings"

	"go-rental-pos/internal/store"

	"github.com/go-pdf/fpdf"
)

// RenderMonthlyReport writes the stored snapshot as a printable PDF. It only
// reads the decoded report; nothing here touches the database.
func RenderMonthlyReport(w io.Writer, detail *store.ReportDetail) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, "SALES & RENTALS", "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 5, "Complete Monthly Report", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Month: "+detail.Month, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, "Generated: "+detail.GeneratedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	chapterTitle(pdf, "GENERAL SUMMARY")
	chapterBody(pdf, fmt.Sprintf("Sales: %d ($ %.2f)\nAverage per sale: $ %.2f\nRentals: %d ($ %.2f)",
		detail.TotalSales, detail.TotalRevenue, detail.AverageSale,
		detail.TotalRentals, detail.RentalRevenue))

	if len(detail.TopProducts) > 0 {
		chapterTitle(pdf, "TOP SOLD PRODUCTS")
		var b strings.Builder
		for i, p := range detail.TopProducts {
			fmt.Fprintf(&b, "%d. %s (%s)\n   Supplier: %s\n   Quantity: %d units\n\n",
				i+1, p.Name, p.Type, orDefault(p.Supplier, "not specified"), p.Quantity)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.TopRented) > 0 {
		chapterTitle(pdf, "TOP RENTED PRODUCTS")
		var b strings.Builder
		for i, p := range detail.TopRented {
			fmt.Fprintf(&b, "%d. %s (%s): %d units\n", i+1, p.Name, p.Type, p.Quantity)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.ActiveRentals) > 0 {
		chapterTitle(pdf, fmt.Sprintf("ACTIVE RENTALS (%d)", len(detail.ActiveRentals)))
		var b strings.Builder
		for i, a := range detail.ActiveRentals {
			fmt.Fprintf(&b, "%d. %s - $ %.2f\n   %s to %s\n\n", i+1, a.Client, a.Total, a.StartDate, a.EndDate)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.TopClients) > 0 {
		chapterTitle(pdf, "FREQUENT CLIENTS THIS MONTH")
		var b strings.Builder
		for i, cl := range detail.TopClients {
			fmt.Fprintf(&b, "%d. %s: %d purchases - $ %.2f\n", i+1, cl.Name, cl.Purchases, cl.Spent)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.NewClients) > 0 {
		chapterTitle(pdf, fmt.Sprintf("NEW CLIENTS (%d)", len(detail.NewClients)))
		var b strings.Builder
		for i, cl := range detail.NewClients {
			fmt.Fprintf(&b, "%d. %s - registered %s\n   Phone: %s | Email: %s\n\n",
				i+1, cl.Name, cl.RegisteredAt, cl.Phone, cl.Email)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.LowStock) > 0 {
		chapterTitle(pdf, fmt.Sprintf("LOW STOCK PRODUCTS (%d)", len(detail.LowStock)))
		var b strings.Builder
		for i, p := range detail.LowStock {
			fmt.Fprintf(&b, "%d. %s (%s)\n   Stock: %d | Minimum: %d\n   Sold this month: %d\n\n",
				i+1, p.Name, p.Type, p.Stock, p.MinStock, p.SoldThisMonth)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.DailySales) > 0 {
		chapterTitle(pdf, "SALES PER DAY")
		var b strings.Builder
		for _, d := range detail.DailySales {
			fmt.Fprintf(&b, "%s: %d sales - $ %.2f\n", d.Day, d.Count, d.Total)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.PaymentMethods) > 0 {
		chapterTitle(pdf, "SALES PER PAYMENT METHOD")
		var b strings.Builder
		for _, m := range detail.PaymentMethods {
			fmt.Fprintf(&b, "%s: %d sales - $ %.2f\n", m.Method, m.Count, m.Total)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.HighDemand) > 0 {
		chapterTitle(pdf, "HIGH DEMAND PRODUCTS")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, "These products need frequent restocking", "", "L", false)
		pdf.Ln(2)
		var b strings.Builder
		for i, p := range detail.HighDemand {
			fmt.Fprintf(&b, "%d. %s (%s)\n   Supplier: %s\n   Quantity: %d units\n\n",
				i+1, p.Name, p.Type, orDefault(p.Supplier, "not specified"), p.Quantity)
		}
		chapterBody(pdf, b.String())
	}

	if len(detail.SalesByType) > 0 {
		chapterTitle(pdf, "SALES PER CATEGORY")
		var b strings.Builder
		for _, t := range detail.SalesByType {
			fmt.Fprintf(&b, "%s: %d units - $ %.2f\n", t.Type, t.Quantity, t.Total)
		}
		chapterBody(pdf, b.String())
	}

	return pdf.Output(w)
}

func chapterTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func chapterBody(pdf *fpdf.Fpdf, body string) {
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(-1)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
