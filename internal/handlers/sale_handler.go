package handlers

import (
	"net/http"
	"strconv"

	"go-rental-pos/internal/models"
	"go-rental-pos/internal/store"

	"github.com/gin-gonic/gin"
)

type SaleRequest struct {
	ClientID      uint                `json:"client_id" binding:"required"`
	PaymentMethod string              `json:"payment_method" binding:"required"`
	Items         []store.LineRequest `json:"items" binding:"required,min=1"`
}

// --- POST: Process a sale ---
func (h *Handler) CreateSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sale, err := h.store.CreateSale(req.ClientID, h.userID(c), req.PaymentMethod, req.Items)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale completed",
		"sale_id": sale.ID,
		"total":   sale.Total,
	})
}

// saleGroup is the per-client listing shape the frontend renders.
type saleGroup struct {
	ClientID   uint          `json:"client_id"`
	Client     string        `json:"client"`
	Sales      []models.Sale `json:"sales"`
	TotalSpent float64       `json:"total_spent"`
	TotalCount int           `json:"total_count"`
}

// --- GET: List sales grouped by client, newest first ---
func (h *Handler) GetSales(c *gin.Context) {
	var sales []models.Sale
	err := h.store.DB().Preload("Items.Product").Preload("Client").
		Order("sale_time DESC").Find(&sales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}

	groups := map[uint]*saleGroup{}
	var order []uint
	for _, sale := range sales {
		g, ok := groups[sale.ClientID]
		if !ok {
			g = &saleGroup{ClientID: sale.ClientID, Client: sale.Client.Name}
			groups[sale.ClientID] = g
			order = append(order, sale.ClientID)
		}
		g.Sales = append(g.Sales, sale)
		g.TotalSpent += sale.Total
		g.TotalCount++
	}

	out := make([]saleGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	c.JSON(http.StatusOK, out)
}

// --- DELETE: Reverse a sale, restoring stock ---
func (h *Handler) DeleteSale(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	if err := h.store.DeleteSale(uint(id)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted and stock restored"})
}
