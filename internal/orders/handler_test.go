package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (f *fixture) mux() *http.ServeMux {
	handler := NewHandler(f.svc, discardLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", handler.HandleCreate)
	mux.HandleFunc("GET /orders/{user_id}", handler.HandleListByUser)
	return mux
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("creates an order", func(t *testing.T) {
		f := newFixture(t, 1, nil)
		body := fmt.Sprintf(`{"user_id":"u1","items":[{"product_id":%q,"bought_quantity":2,"total_amount":39.98}],"user_address":"1 Main St"}`, f.products[0])

		rec := httptest.NewRecorder()
		f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, f.orders.orders, 1)
		assert.Equal(t, f.orders.orders[0].ID.Hex(), resp["id"])
	})

	t.Run("unknown product is 400 and nothing is stored", func(t *testing.T) {
		f := newFixture(t, 1, nil)
		absent := primitive.NewObjectID().Hex()
		body := fmt.Sprintf(`{"user_id":"u1","items":[{"product_id":%q,"bought_quantity":1,"total_amount":1}],"user_address":"x"}`, absent)

		rec := httptest.NewRecorder()
		f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"error":"product %s not found"}`, absent), rec.Body.String())
		assert.Empty(t, f.orders.orders)
	})

	t.Run("malformed product id is 400", func(t *testing.T) {
		f := newFixture(t, 0, nil)
		body := `{"user_id":"u1","items":[{"product_id":"123","bought_quantity":1,"total_amount":1}],"user_address":"x"}`

		rec := httptest.NewRecorder()
		f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty items is 400", func(t *testing.T) {
		f := newFixture(t, 0, nil)
		rec := httptest.NewRecorder()
		f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders",
			strings.NewReader(`{"user_id":"u1","items":[],"user_address":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json is 400", func(t *testing.T) {
		f := newFixture(t, 0, nil)
		rec := httptest.NewRecorder()
		f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`[]`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		f := newFixture(t, 1, nil)
		f.orders.insertErr = errors.New("not primary")
		body := fmt.Sprintf(`{"user_id":"u1","items":[{"product_id":%q,"bought_quantity":1,"total_amount":1}],"user_address":"x"}`, f.products[0])

		rec := httptest.NewRecorder()
		f.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"not primary"}`, rec.Body.String())
	})
}

func TestHandler_HandleListByUser(t *testing.T) {
	f := newFixture(t, 1, nil)
	mux := f.mux()
	for _, user := range []string{"u1", "u2", "u1"} {
		body := fmt.Sprintf(`{"user_id":%q,"items":[{"product_id":%q,"bought_quantity":2,"total_amount":39.98}],"user_address":"1 Main St"}`, user, f.products[0])
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	type listResponse struct {
		Orders []struct {
			OrderID string `json:"order_id"`
			UserID  string `json:"user_id"`
			Items   []struct {
				ProductID      string  `json:"product_id"`
				BoughtQuantity int     `json:"bought_quantity"`
				TotalAmount    float64 `json:"total_amount"`
			} `json:"items"`
			UserAddress string  `json:"user_address"`
			Timestamp   string  `json:"timestamp"`
			TotalAmount float64 `json:"total_amount"`
		} `json:"orders"`
	}

	t.Run("returns the user's orders", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/u1", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Orders, 2)
		for _, o := range resp.Orders {
			assert.Equal(t, "u1", o.UserID)
			assert.NotEmpty(t, o.OrderID)
			assert.NotEmpty(t, o.Timestamp)
			assert.Equal(t, "1 Main St", o.UserAddress)
			assert.Equal(t, 39.98, o.TotalAmount)
			require.Len(t, o.Items, 1)
			assert.Equal(t, f.products[0], o.Items[0].ProductID)
			assert.Equal(t, 2, o.Items[0].BoughtQuantity)
		}
	})

	t.Run("honours limit and offset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/u1?limit=1&offset=1", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Orders, 1)
	})

	t.Run("unknown user renders an empty array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/nobody", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"orders":[]}`, rec.Body.String())
	})

	t.Run("invalid paging is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/u1?offset=x", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		failing := newFixture(t, 0, nil)
		failing.orders.findErr = errors.New("cursor killed")

		rec := httptest.NewRecorder()
		failing.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/u1", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
