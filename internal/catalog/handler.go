package catalog

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

type createProductResponse struct {
	ProductID string `json:"product_id"`
}

type listProductsResponse struct {
	Products []domain.Product `json:"products"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		h.respond.Error(w, r, "invalid product request", err)
		return
	}

	id, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.respond.Error(w, r, "failed to create product", err)
		return
	}

	h.logger.Info("product created", "product_id", id, "request_id", httpx.RequestIDFrom(r.Context()))
	h.respond.JSON(w, http.StatusCreated, createProductResponse{ProductID: id})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := httpx.Page(r)
	if err != nil {
		h.respond.Error(w, r, "invalid pagination", err)
		return
	}

	q := domain.ProductQuery{
		Name:   r.URL.Query().Get("name"),
		Size:   r.URL.Query().Get("size"),
		Limit:  limit,
		Offset: offset,
	}

	products, err := h.service.ListProducts(r.Context(), q)
	if err != nil {
		h.respond.Error(w, r, "failed to list products", err)
		return
	}

	h.logger.Info("products listed", "count", len(products))
	h.respond.JSON(w, http.StatusOK, listProductsResponse{Products: products})
}
