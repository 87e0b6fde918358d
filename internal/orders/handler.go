package orders

import (
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
	"github.com/joao-fontenele/ecommerce-backend/internal/httpx"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
	respond httpx.Responder
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		respond: httpx.NewResponder(logger),
	}
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type listOrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		h.respond.Error(w, r, "invalid order request", err)
		return
	}

	id, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		if domain.IsValidation(err) {
			h.logger.Warn("order rejected", "reason", err, "user_id", req.UserID)
		}
		h.respond.Error(w, r, "failed to create order", err)
		return
	}

	h.logger.Info("order created", "order_id", id, "user_id", req.UserID, "request_id", httpx.RequestIDFrom(r.Context()))
	h.respond.JSON(w, http.StatusCreated, createOrderResponse{ID: id})
}

func (h *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		h.respond.Error(w, r, "missing user id", domain.Invalidf("missing user id"))
		return
	}

	limit, offset, err := httpx.Page(r)
	if err != nil {
		h.respond.Error(w, r, "invalid pagination", err)
		return
	}

	orders, err := h.service.GetUserOrders(r.Context(), domain.OrderQuery{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.respond.Error(w, r, "failed to list orders", err)
		return
	}

	h.logger.Info("orders listed", "user_id", userID, "count", len(orders))
	h.respond.JSON(w, http.StatusOK, listOrdersResponse{Orders: orders})
}
