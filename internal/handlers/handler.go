package handlers

import (
	"errors"
	"net/http"

	"go-rental-pos/internal/assistant"
	"go-rental-pos/internal/auth"
	"go-rental-pos/internal/config"
	"go-rental-pos/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler carries the injected collaborators for every route. Constructed
// once in main; no package-level state.
type Handler struct {
	store     *store.Store
	assistant *assistant.Assistant
	jwt       *auth.Manager
	cfg       *config.Config
}

func New(st *store.Store, as *assistant.Assistant, jwtManager *auth.Manager, cfg *config.Config) *Handler {
	return &Handler{store: st, assistant: as, jwt: jwtManager, cfg: cfg}
}

// fail translates store errors into HTTP responses. Every business failure
// carries a human-readable cause naming the offending entity.
func (h *Handler) fail(c *gin.Context, err error) {
	var stockErr *store.InsufficientStockError
	var rentableErr *store.NotRentableError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateReport),
		errors.Is(err, store.ErrInvalidDateRange),
		errors.Is(err, store.ErrInvalidState),
		errors.Is(err, store.ErrInvalidQuantity),
		errors.As(err, &stockErr),
		errors.As(err, &rentableErr):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) userID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
