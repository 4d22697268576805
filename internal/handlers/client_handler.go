package handlers

import (
	"net/http"
	"strconv"

	"go-rental-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: List clients with their activity summary ---
func (h *Handler) GetClients(c *gin.Context) {
	clients, err := h.store.ClientActivities()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}
	c.JSON(http.StatusOK, clients)
}

type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// --- POST: Register a client ---
func (h *Handler) AddClient(c *gin.Context) {
	var input ClientRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	client := models.Client{
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
	}
	if err := h.store.DB().Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}
	c.JSON(http.StatusCreated, client)
}

// --- PUT: Update contact fields ---
func (h *Handler) UpdateClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var client models.Client
	if err := h.store.DB().First(&client, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	var input ClientRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	client.Name = input.Name
	client.Phone = input.Phone
	client.Email = input.Email
	client.Address = input.Address
	if err := h.store.DB().Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully", "client": client})
}

// --- DELETE: Remove a client and reverse their history ---
// The response reports how many sales and rentals were rolled back, since the
// cascade can touch stock on many unrelated products.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	salesRemoved, rentalsRemoved, err := h.store.DeleteClient(uint(id))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Client deleted; stock restored",
		"sales_removed":   salesRemoved,
		"rentals_removed": rentalsRemoved,
	})
}
