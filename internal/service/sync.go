package service

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
	"github.com/yashpatel5000/auto-part/internal/media"
	"github.com/yashpatel5000/auto-part/internal/repository"
	"github.com/yashpatel5000/auto-part/internal/shopify"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// CatalogSource streams the full parts feed, page by page.
type CatalogSource interface {
	ForEachPage(ctx context.Context, limit int, fn func(parts []domain.RemotePart) error) error
}

// EnrichmentResolver resolves the reference data a part needs. It returns an
// error wrapping errors.ErrSkipPart when the part cannot be enriched.
type EnrichmentResolver interface {
	Resolve(ctx context.Context, part *domain.RemotePart) (*domain.EnrichmentBundle, error)
}

// MediaResolver turns photo references into attachable media descriptors.
type MediaResolver interface {
	Resolve(ctx context.Context, refs []string) (*media.Resolved, error)
}

// MediaCleaner releases rehosted objects once the owning mutation succeeded.
type MediaCleaner interface {
	Delete(ctx context.Context, keys []string) error
}

// Gateway is the commerce-platform surface the engine mutates through.
type Gateway interface {
	CreateProduct(ctx context.Context, input shopify.ProductCreateInput, media []domain.MediaDescriptor) (*shopify.CreatedProduct, error)
	UpdateProduct(ctx context.Context, input shopify.ProductCreateInput, media []domain.MediaDescriptor) ([]string, error)
	CreateVariants(ctx context.Context, productID string, variants []shopify.VariantInput) (*shopify.VariantResult, error)
	UpdateVariants(ctx context.Context, productID string, variants []shopify.VariantInput) (*shopify.VariantResult, error)
	DeleteProductMedia(ctx context.Context, productID string, mediaIDs []string) error
	DefaultLocationID(ctx context.Context) (string, error)
	ProductOptionID(ctx context.Context, productID string) (string, error)
}

// SyncEngine reconciles the remote parts catalog with the Shopify store and
// the local mirror. A run processes parts strictly sequentially; every
// per-part failure is logged and contained, only a first-page catalog
// failure aborts the run.
type SyncEngine struct {
	catalog  CatalogSource
	enricher EnrichmentResolver
	media    MediaResolver
	cleaner  MediaCleaner
	gateway  Gateway
	repos    *repository.Repositories
	logger   *zap.Logger
	pageSize int

	mu sync.Mutex
}

// NewSyncEngine wires the reconciliation engine.
func NewSyncEngine(
	catalog CatalogSource,
	enricher EnrichmentResolver,
	mediaResolver MediaResolver,
	cleaner MediaCleaner,
	gateway Gateway,
	repos *repository.Repositories,
	pageSize int,
	logger *zap.Logger,
) *SyncEngine {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &SyncEngine{
		catalog:  catalog,
		enricher: enricher,
		media:    mediaResolver,
		cleaner:  cleaner,
		gateway:  gateway,
		repos:    repos,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Run executes one full reconciliation pass: create new parts, update
// changed ones, retire the orphans. Safe to call repeatedly; overlapping
// runs are serialized.
func (s *SyncEngine) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The full local mirror is the existence and diff oracle for the whole
	// run; it is not re-queried per part.
	records, err := s.repos.SyncedPart.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]*domain.SyncedPart, len(records))
	for _, rec := range records {
		byID[rec.RemotePartID] = rec
	}

	seen := make(map[string]bool)

	err = s.catalog.ForEachPage(ctx, s.pageSize, func(parts []domain.RemotePart) error {
		for i := range parts {
			part := parts[i]
			seen[part.ID] = true

			existing, ok := byID[part.ID]
			if !ok {
				s.logger.Info("New part found", zap.String("part_id", part.ID))
				rec, err := s.createPart(ctx, &part)
				if err != nil {
					s.logPartFailure(part.ID, "create", err)
					continue
				}
				// Feed pages can repeat an id; recording the new row keeps
				// the run from creating it twice.
				byID[part.ID] = rec
				continue
			}

			if err := s.updatePart(ctx, &part, existing); err != nil {
				s.logPartFailure(part.ID, "update", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.retireOrphans(ctx, byID, seen)
	return nil
}

func (s *SyncEngine) logPartFailure(partID, op string, err error) {
	if errors.Is(err, apperrors.ErrSkipPart) {
		s.logger.Info("Part skipped", zap.String("part_id", partID), zap.String("op", op), zap.Error(err))
		return
	}
	s.logger.Error("Part failed", zap.String("part_id", partID), zap.String("op", op), zap.Error(err))
}

// createPart walks the create path: media, enrichment, productCreate,
// variant, then the two store writes. Media cleanup happens only after the
// store writes so a crash never strands a product without its mirror row
// silently.
func (s *SyncEngine) createPart(ctx context.Context, part *domain.RemotePart) (*domain.SyncedPart, error) {
	var resolved *media.Resolved
	if part.HasPhotos() {
		var err error
		resolved, err = s.media.Resolve(ctx, part.PhotoRefs())
		if err != nil {
			return nil, err
		}
		s.logger.Info("Media processed", zap.String("part_id", part.ID))
	}

	bundle, err := s.enricher.Resolve(ctx, part)
	if err != nil {
		return nil, err
	}

	input := BuildCreatePayload(part, bundle)

	var descriptors []domain.MediaDescriptor
	if resolved != nil {
		descriptors = resolved.Descriptors
	}

	created, err := s.gateway.CreateProduct(ctx, input, descriptors)
	if err != nil {
		return nil, err
	}

	locationID, err := s.gateway.DefaultLocationID(ctx)
	if err != nil {
		return nil, err
	}
	optionID, err := s.gateway.ProductOptionID(ctx, created.ProductID)
	if err != nil {
		return nil, err
	}

	variant := BuildCreateVariant(part, optionID, locationID)
	vres, err := s.gateway.CreateVariants(ctx, created.ProductID, []shopify.VariantInput{variant})
	if err != nil {
		return nil, err
	}

	if err := s.repos.Part.Insert(ctx, part); err != nil {
		return nil, err
	}

	rec := &domain.SyncedPart{
		RemotePartID:    part.ID,
		ProductID:       created.ProductID,
		VariantID:       vres.VariantID,
		InventoryItemID: vres.InventoryItemID,
		Metafields:      MetafieldValues(part, bundle),
		Title:           input.Title,
		Price:           variant.Price,
		Barcode:         variant.Barcode,
		Description:     input.DescriptionHtml,
		Media:           descriptors,
		MediaIDs:        created.MediaIDs,
	}
	if err := s.repos.SyncedPart.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.releaseMedia(ctx, part.ID, resolved)
	s.logger.Info("Part stored in Shopify", zap.String("part_id", part.ID), zap.String("product_id", created.ProductID))
	return rec, nil
}

// updatePart diffs the part against its mirror row and pushes only real
// changes. NoChange makes no network calls at all.
func (s *SyncEngine) updatePart(ctx context.Context, part *domain.RemotePart, existing *domain.SyncedPart) error {
	bundle, err := s.enricher.Resolve(ctx, part)
	if err != nil {
		return err
	}

	plan, changed := BuildUpdatePayload(part, bundle, existing)
	if !changed {
		s.logger.Debug("Part unchanged", zap.String("part_id", part.ID))
		return nil
	}

	var resolved *media.Resolved
	var descriptors []domain.MediaDescriptor
	if plan.MediaChanged {
		if part.HasPhotos() {
			resolved, err = s.media.Resolve(ctx, part.PhotoRefs())
			if err != nil {
				return err
			}
			descriptors = resolved.Descriptors
			s.logger.Info("Media processed", zap.String("part_id", part.ID))
		}
		// The old gallery goes first so Shopify doesn't accumulate stale
		// images next to the replacement set.
		if len(existing.MediaIDs) > 0 {
			if err := s.gateway.DeleteProductMedia(ctx, existing.ProductID, existing.MediaIDs); err != nil {
				return err
			}
		}
	}

	mediaIDs, err := s.gateway.UpdateProduct(ctx, plan.Product, descriptors)
	if err != nil {
		return err
	}

	optionID, err := s.gateway.ProductOptionID(ctx, existing.ProductID)
	if err != nil {
		return err
	}
	plan.Variant.OptionValues = []shopify.OptionValueInput{
		{OptionID: optionID, Name: part.Name},
	}
	vres, err := s.gateway.UpdateVariants(ctx, existing.ProductID, []shopify.VariantInput{plan.Variant})
	if err != nil {
		return err
	}

	set := map[string]interface{}{}
	if plan.TitleChanged {
		set["title"] = plan.Product.Title
	}
	if plan.DescriptionChanged {
		set["description"] = plan.Product.DescriptionHtml
	}
	if plan.PriceChanged {
		set["price"] = vres.Price
	}
	if plan.BarcodeChanged {
		set["barcode"] = vres.Barcode
	}
	if len(plan.ChangedMetafields) > 0 {
		set["metafields"] = lo.Assign(existing.Metafields, plan.ChangedMetafields)
	}
	if plan.MediaChanged {
		set["media"] = descriptors
		set["mediaIds"] = mediaIDs
	}

	if err := s.repos.SyncedPart.Merge(ctx, part.ID, set); err != nil {
		return err
	}

	s.releaseMedia(ctx, part.ID, resolved)
	s.logger.Info("Part updated in Shopify", zap.String("part_id", part.ID))
	return nil
}

// retireOrphans flips every synced part that vanished from the feed to
// DRAFT. The local record stays: it is the proof the part was ever synced.
func (s *SyncEngine) retireOrphans(ctx context.Context, byID map[string]*domain.SyncedPart, seen map[string]bool) {
	for id, rec := range byID {
		if seen[id] {
			continue
		}
		_, err := s.gateway.UpdateProduct(ctx, shopify.ProductCreateInput{
			ID:     rec.ProductID,
			Status: string(domain.ProductStatusDraft),
		}, nil)
		if err != nil {
			s.logger.Error("Failed to retire orphaned part", zap.String("part_id", id), zap.Error(err))
			continue
		}
		s.logger.Info("Part retired, no longer in catalog", zap.String("part_id", id))
	}
}

func (s *SyncEngine) releaseMedia(ctx context.Context, partID string, resolved *media.Resolved) {
	if resolved == nil || len(resolved.CleanupKeys) == 0 {
		return
	}
	if err := s.cleaner.Delete(ctx, resolved.CleanupKeys); err != nil {
		s.logger.Warn("Failed to delete rehosted media", zap.String("part_id", partID), zap.Error(err))
		return
	}
	s.logger.Info("Rehosted media deleted", zap.String("part_id", partID))
}
