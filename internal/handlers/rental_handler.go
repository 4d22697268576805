package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go-rental-pos/internal/models"
	"go-rental-pos/internal/store"

	"github.com/gin-gonic/gin"
)

type RentalRequest struct {
	ClientID      uint                `json:"client_id" binding:"required"`
	StartDate     string              `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate       string              `json:"end_date" binding:"required"`
	Deposit       float64             `json:"deposit"`
	PaymentMethod string              `json:"payment_method" binding:"required"`
	Notes         string              `json:"notes"`
	Items         []store.LineRequest `json:"items" binding:"required,min=1"`
}

// --- POST: Book a rental ---
func (h *Handler) CreateRental(c *gin.Context) {
	var req RentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be in YYYY-MM-DD format"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be in YYYY-MM-DD format"})
		return
	}

	rental, err := h.store.CreateRental(req.ClientID, h.userID(c), start, end,
		req.Deposit, req.PaymentMethod, req.Notes, req.Items)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Rental created",
		"rental_id": rental.ID,
		"total":     rental.Total,
		"days":      rentalDays(rental),
	})
}

func rentalDays(r *models.Rental) int {
	if len(r.Items) > 0 {
		return r.Items[0].Days
	}
	return 0
}

// rentalGroup is the per-client listing shape the frontend renders.
type rentalGroup struct {
	ClientID   uint            `json:"client_id"`
	Client     string          `json:"client"`
	Rentals    []models.Rental `json:"rentals"`
	TotalSpent float64         `json:"total_spent"`
	TotalCount int             `json:"total_count"`
}

// --- GET: List rentals grouped by client, newest first ---
func (h *Handler) GetRentals(c *gin.Context) {
	var rentals []models.Rental
	err := h.store.DB().Preload("Items.Product").Preload("Client").
		Order("created_at DESC").Find(&rentals).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rentals"})
		return
	}

	groups := map[uint]*rentalGroup{}
	var order []uint
	for _, rental := range rentals {
		g, ok := groups[rental.ClientID]
		if !ok {
			g = &rentalGroup{ClientID: rental.ClientID, Client: rental.Client.Name}
			groups[rental.ClientID] = g
			order = append(order, rental.ClientID)
		}
		g.Rentals = append(g.Rentals, rental)
		g.TotalSpent += rental.Total
		g.TotalCount++
	}

	out := make([]rentalGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	c.JSON(http.StatusOK, out)
}

// --- PUT: Finalize a rental (return the goods) ---
func (h *Handler) FinalizeRental(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rental ID"})
		return
	}

	rental, err := h.store.FinalizeRental(uint(id))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Rental finalized and stock restored",
		"rental_id":   rental.ID,
		"returned_at": rental.ReturnedAt,
	})
}

// --- DELETE: Remove a rental ---
func (h *Handler) DeleteRental(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rental ID"})
		return
	}

	if err := h.store.DeleteRental(uint(id)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rental deleted"})
}
