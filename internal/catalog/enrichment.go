package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/config"
	"github.com/yashpatel5000/auto-part/internal/domain"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// Enricher resolves the vehicle/brand/category reference data a part needs
// before it can be written to Shopify. The reference endpoints return full
// collections; matching is exact-id, client-side. A missing match or an
// unreachable endpoint both resolve to ErrSkipPart: the part is skipped for
// this run, the run itself continues.
type Enricher struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *zap.Logger
}

// NewEnricher creates an enrichment resolver
func NewEnricher(cfg config.PartsAPIConfig, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		creds: Credentials{
			Username:  cfg.Username,
			Password:  cfg.Password,
			UserToken: cfg.UserToken,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type carModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	YearStart string `json:"year_start"`
	YearEnd   string `json:"year_end"`
}

type carBrand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type partCategory struct {
	ID string `json:"id"`
	En string `json:"en"`
}

// Resolve performs the four dependent lookups: vehicle-by-id, model list,
// brand list, category list.
func (e *Enricher) Resolve(ctx context.Context, part *domain.RemotePart) (*domain.EnrichmentBundle, error) {
	modelID, err := e.vehicleModelID(ctx, part.CarID)
	if err != nil {
		return nil, e.skip(part.ID, "vehicle lookup failed", err)
	}

	var models struct {
		List []carModel `json:"list"`
	}
	if err := e.postList(ctx, "/get/car_models", &models); err != nil {
		return nil, e.skip(part.ID, "car model lookup failed", err)
	}
	var model *carModel
	for i := range models.List {
		if models.List[i].ID == modelID {
			model = &models.List[i]
			break
		}
	}
	if model == nil {
		return nil, e.skip(part.ID, fmt.Sprintf("no car model %s", modelID), nil)
	}

	var brands struct {
		List []carBrand `json:"list"`
	}
	if err := e.postList(ctx, "/get/car_brands", &brands); err != nil {
		return nil, e.skip(part.ID, "brand lookup failed", err)
	}
	var brand *carBrand
	for i := range brands.List {
		if brands.List[i].ID == model.Brand {
			brand = &brands.List[i]
			break
		}
	}
	if brand == nil {
		return nil, e.skip(part.ID, fmt.Sprintf("no brand %s", model.Brand), nil)
	}

	var categories struct {
		List []partCategory `json:"list"`
	}
	if err := e.postList(ctx, "/get/categories", &categories); err != nil {
		return nil, e.skip(part.ID, "category lookup failed", err)
	}
	var category *partCategory
	for i := range categories.List {
		if categories.List[i].ID == part.CategoryID {
			category = &categories.List[i]
			break
		}
	}
	if category == nil {
		return nil, e.skip(part.ID, fmt.Sprintf("no category %s", part.CategoryID), nil)
	}

	return &domain.EnrichmentBundle{
		ModelName:     model.Name,
		YearStart:     model.YearStart,
		YearEnd:       model.YearEnd,
		BrandName:     brand.Name,
		CategoryLabel: category.En,
	}, nil
}

// vehicleModelID resolves the car_model id of the vehicle a part belongs to.
// The endpoint nests the row as list[0][0].
func (e *Enricher) vehicleModelID(ctx context.Context, carID int64) (string, error) {
	var out struct {
		List [][]struct {
			CarModel json.Number `json:"car_model"`
		} `json:"list"`
	}
	if err := e.postList(ctx, fmt.Sprintf("/get/car/%d", carID), &out); err != nil {
		return "", err
	}
	if len(out.List) == 0 || len(out.List[0]) == 0 {
		return "", fmt.Errorf("vehicle %d not found", carID)
	}
	return out.List[0][0].CarModel.String(), nil
}

func (e *Enricher) postList(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, strings.NewReader(e.creds.Form().Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("reference API returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (e *Enricher) skip(partID, reason string, err error) error {
	if err != nil {
		e.logger.Warn("Enrichment incomplete, skipping part",
			zap.String("part_id", partID),
			zap.String("reason", reason),
			zap.Error(err),
		)
	} else {
		e.logger.Warn("Enrichment incomplete, skipping part",
			zap.String("part_id", partID),
			zap.String("reason", reason),
		)
	}
	return fmt.Errorf("%s: %w", reason, apperrors.ErrSkipPart)
}
