package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
	"github.com/yashpatel5000/auto-part/internal/repository"
	"github.com/yashpatel5000/auto-part/internal/service"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

type stubSyncedRepo struct {
	records map[string]*domain.SyncedPart
}

func (s *stubSyncedRepo) List(context.Context) ([]*domain.SyncedPart, error) {
	out := make([]*domain.SyncedPart, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (s *stubSyncedRepo) GetByRemoteID(_ context.Context, id string) (*domain.SyncedPart, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "synced part", ID: id}
	}
	return rec, nil
}

func (s *stubSyncedRepo) Insert(_ context.Context, rec *domain.SyncedPart) error {
	s.records[rec.RemotePartID] = rec
	return nil
}

func (s *stubSyncedRepo) Merge(context.Context, string, map[string]interface{}) error {
	return nil
}

type stubInventoryGateway struct {
	deltas []int
}

func (s *stubInventoryGateway) DefaultLocationID(context.Context) (string, error) {
	return "gid://shopify/Location/1", nil
}

func (s *stubInventoryGateway) AvailableQuantity(context.Context, string) (int, error) {
	return 3, nil
}

func (s *stubInventoryGateway) AdjustInventory(_ context.Context, _, _ string, delta int) error {
	s.deltas = append(s.deltas, delta)
	return nil
}

func TestHandleWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &stubSyncedRepo{records: map[string]*domain.SyncedPart{
		"10001": {RemotePartID: "10001", InventoryItemID: "gid://shopify/InventoryItem/1"},
	}}
	gw := &stubInventoryGateway{}
	reactor := service.NewWebhookReactor(gw, store, zap.NewNop())

	router := gin.New()
	router.POST("/webhook", HandleWebhook(reactor, zap.NewNop()))

	t.Run("valid event is acknowledged", func(t *testing.T) {
		body := `{"event_type": "part.status.changed", "event_data": {"part_id": "10001", "status": "sold"}}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Part status changed successfully.")
		require.Len(t, gw.deltas, 1)
		assert.Equal(t, -3, gw.deltas[0])
	})

	t.Run("malformed body is a server error", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandleSyncedParts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repos := &repository.Repositories{SyncedPart: &stubSyncedRepo{records: map[string]*domain.SyncedPart{
		"10001": {RemotePartID: "10001", ProductID: "gid://shopify/Product/1", Title: "Fuel pump"},
	}}}

	router := gin.New()
	router.GET("/v1/parts", HandleListSyncedParts(repos, zap.NewNop()))
	router.GET("/v1/parts/:id", HandleGetSyncedPart(repos, zap.NewNop()))

	t.Run("list returns the mirror", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/parts", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("get by remote id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/parts/10001", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fuel pump")
	})

	t.Run("unsynced id is a 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/parts/99999", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
