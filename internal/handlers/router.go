package handlers

import (
	"net/http"
	"strings"
	"time"

	"go-rental-pos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the full route table. Everything under /api requires a
// valid session; mutating catalog, report and chat routes additionally need
// the admin role.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(h.cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.Static("/uploads", h.cfg.UploadDir)

	if h.cfg.AllowRegistration {
		r.POST("/register", h.Register)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthRequired(h.jwt))
	{
		api.GET("/dashboard", h.GetDashboard)

		api.GET("/products", h.GetProducts)
		api.GET("/clients", h.GetClients)
		api.POST("/clients", h.AddClient)
		api.PUT("/clients/:id", h.UpdateClient)

		api.POST("/sales", h.CreateSale)
		api.GET("/sales", h.GetSales)
		api.POST("/rentals", h.CreateRental)
		api.GET("/rentals", h.GetRentals)
		api.PUT("/rentals/:id/finalize", h.FinalizeRental)

		api.GET("/assistant/status", h.GetAssistantStatus)
		api.POST("/chat", h.Chat)

		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/upload", h.UploadImage)
			admin.POST("/products", h.AddProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.DELETE("/clients/:id", h.DeleteClient)
			admin.DELETE("/sales/:id", h.DeleteSale)
			admin.DELETE("/rentals/:id", h.DeleteRental)

			admin.GET("/reports/summary", h.GetReportSummary)
			admin.POST("/reports", h.GenerateReport)
			admin.GET("/reports", h.GetReports)
			admin.GET("/reports/:id", h.GetReport)
			admin.GET("/reports/:id/download", h.DownloadReportPDF)
			admin.DELETE("/reports/:id", h.DeleteReport)
		}
	}

	return r
}
