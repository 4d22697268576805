package handlers

import (
	"bytes"
	"net/http"
	"time"

	"go-rental-pos/internal/pdfgen"

	"github.com/gin-gonic/gin"
)

// GetReportSummary returns the all-time aggregates shown on the reports page.
func (h *Handler) GetReportSummary(c *gin.Context) {
	totals, err := h.store.Totals()
	if err != nil {
		h.fail(c, err)
		return
	}
	topSellers, err := h.store.TopSellers(10)
	if err != nil {
		h.fail(c, err)
		return
	}
	topRented, err := h.store.TopRented(10)
	if err != nil {
		h.fail(c, err)
		return
	}
	frequentClients, err := h.store.FrequentClients(10)
	if err != nil {
		h.fail(c, err)
		return
	}
	lowStock, err := h.store.LowStockProducts()
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":           totals,
		"top_sellers":      topSellers,
		"top_rented":       topRented,
		"frequent_clients": frequentClients,
		"low_stock":        lowStock,
	})
}

// GenerateReport snapshots the current month. A month can only be snapshotted
// once; repeats get a 400 from the store's duplicate check.
func (h *Handler) GenerateReport(c *gin.Context) {
	report, err := h.store.GenerateMonthlyReport(time.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Report generated",
		"id":      report.ID,
		"month":   report.Month,
	})
}

func (h *Handler) GetReports(c *gin.Context) {
	reports, err := h.store.ListReports()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) GetReport(c *gin.Context) {
	detail, err := h.store.GetReportDetail(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	if err := h.store.DeleteReport(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

// DownloadReportPDF renders a stored snapshot as a PDF attachment.
func (h *Handler) DownloadReportPDF(c *gin.Context) {
	detail, err := h.store.GetReportDetail(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := pdfgen.RenderMonthlyReport(&buf, detail); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="report_`+detail.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
