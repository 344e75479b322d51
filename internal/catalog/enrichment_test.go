package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/config"
	"github.com/yashpatel5000/auto-part/internal/domain"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// referenceServer serves the four reference endpoints with one consistent
// vehicle/model/brand/category chain.
func referenceServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/get/car/1201", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tok-123", r.PostForm.Get("user_token"))
		w.Write([]byte(`{"list": [[{"car_model": 321}]]}`))
	})
	mux.HandleFunc("/get/car_models", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"list": [
			{"id": "999", "name": "Passat B5", "brand": "45", "year_start": "1996", "year_end": "2000"},
			{"id": "321", "name": "Golf IV", "brand": "45", "year_start": "1997", "year_end": "2005"}
		]}`))
	})
	mux.HandleFunc("/get/car_brands", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"list": [{"id": "45", "name": "Volkswagen"}]}`))
	})
	mux.HandleFunc("/get/categories", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"list": [{"id": "268", "en": "Fuel supply system"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func enricherConfig(baseURL string) config.PartsAPIConfig {
	return config.PartsAPIConfig{
		BaseURL:   baseURL,
		Username:  "shop@example.com",
		Password:  "secret",
		UserToken: "tok-123",
	}
}

func TestEnricherResolve(t *testing.T) {
	t.Parallel()

	srv := referenceServer(t)
	e := NewEnricher(enricherConfig(srv.URL), zap.NewNop())

	bundle, err := e.Resolve(context.Background(), &domain.RemotePart{
		ID:         "10001",
		CarID:      1201,
		CategoryID: "268",
	})

	require.NoError(t, err)
	assert.Equal(t, "Golf IV", bundle.ModelName)
	assert.Equal(t, "Volkswagen", bundle.BrandName)
	assert.Equal(t, "Fuel supply system", bundle.CategoryLabel)
	assert.Equal(t, "1997-2005", bundle.YearRange())
}

func TestEnricherResolveMissingCategoryIsSkip(t *testing.T) {
	t.Parallel()

	srv := referenceServer(t)
	e := NewEnricher(enricherConfig(srv.URL), zap.NewNop())

	_, err := e.Resolve(context.Background(), &domain.RemotePart{
		ID:         "10001",
		CarID:      1201,
		CategoryID: "does-not-exist",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSkipPart)
}

func TestEnricherResolveUnknownVehicleIsSkip(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"list": []}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := NewEnricher(enricherConfig(srv.URL), zap.NewNop())

	_, err := e.Resolve(context.Background(), &domain.RemotePart{ID: "10001", CarID: 77})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSkipPart)
}

func TestEnricherResolveEndpointFailureIsSkip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewEnricher(enricherConfig(srv.URL), zap.NewNop())

	_, err := e.Resolve(context.Background(), &domain.RemotePart{ID: "10001", CarID: 1201})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSkipPart)
}
