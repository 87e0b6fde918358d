package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/joao-fontenele/ecommerce-backend/internal/httpx"
)

const (
	rootMessage = "Ecommerce Backend API is running"

	// pingTimeout keeps a probe well inside the server's write timeout.
	pingTimeout = 2 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type Handler struct {
	db      Pinger
	logger  *slog.Logger
	respond httpx.Responder
	timeout time.Duration
}

func NewHandler(db Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		db:      db,
		logger:  logger,
		respond: httpx.NewResponder(logger),
		timeout: pingTimeout,
	}
}

type rootResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, rootResponse{Message: rootMessage})
}

// HandleHealth always answers 200; a failed ping is reported in the body.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Warn("database ping failed", "error", err)
		h.respond.JSON(w, http.StatusOK, healthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	h.respond.JSON(w, http.StatusOK, healthResponse{Status: "healthy", Database: "connected"})
}
