package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stubPinger struct {
	err   error
	calls int
	hang  bool
}

func (s *stubPinger) Ping(ctx context.Context, _ *readpref.ReadPref) error {
	s.calls++
	if s.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func newTestHandler(p Pinger) *Handler {
	return NewHandler(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandler_HandleRoot(t *testing.T) {
	pinger := &stubPinger{}
	rec := httptest.NewRecorder()

	newTestHandler(pinger).HandleRoot(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Ecommerce Backend API is running"}`, rec.Body.String())
	assert.Zero(t, pinger.calls)
}

func TestHandler_HandleHealth(t *testing.T) {
	t.Run("reachable store", func(t *testing.T) {
		pinger := &stubPinger{}
		rec := httptest.NewRecorder()

		newTestHandler(pinger).HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy","database":"connected"}`, rec.Body.String())
		assert.Equal(t, 1, pinger.calls)
	})

	t.Run("unreachable store still answers 200", func(t *testing.T) {
		rec := httptest.NewRecorder()

		newTestHandler(&stubPinger{err: errors.New("server selection timeout")}).
			HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"status":"unhealthy","database":"disconnected","error":"server selection timeout"}`,
			rec.Body.String())
	})

	t.Run("unresponsive store is reported before the ping timeout", func(t *testing.T) {
		h := newTestHandler(&stubPinger{hang: true})
		h.timeout = 50 * time.Millisecond
		rec := httptest.NewRecorder()

		start := time.Now()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"status":"unhealthy","database":"disconnected","error":"context deadline exceeded"}`,
			rec.Body.String())
	})

	t.Run("default ping timeout fits the server write timeout", func(t *testing.T) {
		assert.Less(t, newTestHandler(&stubPinger{}).timeout, 10*time.Second)
	})
}
