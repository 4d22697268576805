package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetDashboard assembles the landing-page numbers in one round trip.
func (h *Handler) GetDashboard(c *gin.Context) {
	totals, err := h.store.Totals()
	if err != nil {
		h.fail(c, err)
		return
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayRevenue, err := h.store.RevenueDuring(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		h.fail(c, err)
		return
	}

	lowStock, err := h.store.LowStockProducts()
	if err != nil {
		h.fail(c, err)
		return
	}
	recentSales, err := h.store.RecentSales(5)
	if err != nil {
		h.fail(c, err)
		return
	}
	recentRentals, err := h.store.RecentRentals(5)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":         totals,
		"today_revenue":  todayRevenue,
		"low_stock":      lowStock,
		"recent_sales":   recentSales,
		"recent_rentals": recentRentals,
		"assistant":      h.assistant.Status(),
	})
}
