package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
	"github.com/yashpatel5000/auto-part/internal/media"
	"github.com/yashpatel5000/auto-part/internal/repository"
	"github.com/yashpatel5000/auto-part/internal/shopify"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// --- fakes -----------------------------------------------------------------

type fakeCatalog struct {
	pages [][]domain.RemotePart
	err   error
}

func (f *fakeCatalog) ForEachPage(_ context.Context, _ int, fn func(parts []domain.RemotePart) error) error {
	if f.err != nil {
		return f.err
	}
	for _, page := range f.pages {
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}

type fakeEnricher struct {
	bundles map[string]*domain.EnrichmentBundle
	skip    map[string]bool
}

func (f *fakeEnricher) Resolve(_ context.Context, part *domain.RemotePart) (*domain.EnrichmentBundle, error) {
	if f.skip[part.ID] {
		return nil, fmt.Errorf("no car model: %w", apperrors.ErrSkipPart)
	}
	if b, ok := f.bundles[part.ID]; ok {
		return b, nil
	}
	return testBundle(), nil
}

type fakeMediaResolver struct {
	calls    [][]string
	resolved *media.Resolved
	err      error
}

func (f *fakeMediaResolver) Resolve(_ context.Context, refs []string) (*media.Resolved, error) {
	f.calls = append(f.calls, refs)
	if f.err != nil {
		return nil, f.err
	}
	if f.resolved != nil {
		return f.resolved, nil
	}
	out := &media.Resolved{}
	for i, ref := range refs {
		out.Descriptors = append(out.Descriptors, domain.MediaDescriptor{
			MediaContentType: "IMAGE",
			OriginalSource:   ref,
		})
		out.CleanupKeys = append(out.CleanupKeys, fmt.Sprintf("parts/key-%d", i))
	}
	return out, nil
}

type fakeCleaner struct {
	deleted [][]string
}

func (f *fakeCleaner) Delete(_ context.Context, keys []string) error {
	f.deleted = append(f.deleted, keys)
	return nil
}

type productUpdateCall struct {
	input shopify.ProductCreateInput
	media []domain.MediaDescriptor
}

type fakeGateway struct {
	creates       []shopify.ProductCreateInput
	createMedia   [][]domain.MediaDescriptor
	updates       []productUpdateCall
	variantCreate []shopify.VariantInput
	variantUpdate []shopify.VariantInput
	mediaDeletes  [][]string

	createErr error
	nextID    int
}

func (f *fakeGateway) CreateProduct(_ context.Context, input shopify.ProductCreateInput, m []domain.MediaDescriptor) (*shopify.CreatedProduct, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates = append(f.creates, input)
	f.createMedia = append(f.createMedia, m)
	f.nextID++
	created := &shopify.CreatedProduct{
		ProductID:   fmt.Sprintf("gid://shopify/Product/%d", f.nextID),
		Title:       input.Title,
		Description: input.DescriptionHtml,
	}
	for i := range m {
		created.MediaIDs = append(created.MediaIDs, fmt.Sprintf("gid://shopify/MediaImage/%d-%d", f.nextID, i))
	}
	return created, nil
}

func (f *fakeGateway) UpdateProduct(_ context.Context, input shopify.ProductCreateInput, m []domain.MediaDescriptor) ([]string, error) {
	f.updates = append(f.updates, productUpdateCall{input: input, media: m})
	ids := make([]string, 0, len(m))
	for i := range m {
		ids = append(ids, fmt.Sprintf("gid://shopify/MediaImage/u-%d", i))
	}
	return ids, nil
}

func (f *fakeGateway) CreateVariants(_ context.Context, productID string, variants []shopify.VariantInput) (*shopify.VariantResult, error) {
	f.variantCreate = append(f.variantCreate, variants...)
	return &shopify.VariantResult{
		VariantID:       productID + "/variant",
		Price:           variants[0].Price,
		Barcode:         variants[0].Barcode,
		InventoryItemID: productID + "/inventory",
	}, nil
}

func (f *fakeGateway) UpdateVariants(_ context.Context, productID string, variants []shopify.VariantInput) (*shopify.VariantResult, error) {
	f.variantUpdate = append(f.variantUpdate, variants...)
	return &shopify.VariantResult{
		VariantID: variants[0].ID,
		Price:     variants[0].Price,
		Barcode:   variants[0].Barcode,
	}, nil
}

func (f *fakeGateway) DeleteProductMedia(_ context.Context, _ string, mediaIDs []string) error {
	f.mediaDeletes = append(f.mediaDeletes, mediaIDs)
	return nil
}

func (f *fakeGateway) DefaultLocationID(context.Context) (string, error) {
	return "gid://shopify/Location/1", nil
}

func (f *fakeGateway) ProductOptionID(_ context.Context, productID string) (string, error) {
	return productID + "/option", nil
}

func (f *fakeGateway) mutationCount() int {
	return len(f.creates) + len(f.updates) + len(f.variantCreate) + len(f.variantUpdate) + len(f.mediaDeletes)
}

type memPartRepo struct {
	parts map[string]*domain.RemotePart
}

func (m *memPartRepo) Insert(_ context.Context, part *domain.RemotePart) error {
	m.parts[part.ID] = part
	return nil
}

func (m *memPartRepo) GetByID(_ context.Context, id string) (*domain.RemotePart, error) {
	p, ok := m.parts[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "part", ID: id}
	}
	return p, nil
}

type memSyncedRepo struct {
	records map[string]*domain.SyncedPart
	merges  []map[string]interface{}
}

func (m *memSyncedRepo) List(context.Context) ([]*domain.SyncedPart, error) {
	out := make([]*domain.SyncedPart, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSyncedRepo) GetByRemoteID(_ context.Context, id string) (*domain.SyncedPart, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "synced part", ID: id}
	}
	return rec, nil
}

func (m *memSyncedRepo) Insert(_ context.Context, rec *domain.SyncedPart) error {
	m.records[rec.RemotePartID] = rec
	return nil
}

func (m *memSyncedRepo) Merge(_ context.Context, id string, set map[string]interface{}) error {
	rec, ok := m.records[id]
	if !ok {
		return &apperrors.ErrNotFound{Resource: "synced part", ID: id}
	}
	m.merges = append(m.merges, set)
	for k, v := range set {
		switch k {
		case "title":
			rec.Title = v.(string)
		case "description":
			rec.Description = v.(string)
		case "price":
			rec.Price = v.(string)
		case "barcode":
			rec.Barcode = v.(string)
		case "metafields":
			rec.Metafields = v.(map[string]string)
		case "media":
			rec.Media = v.([]domain.MediaDescriptor)
		case "mediaIds":
			rec.MediaIDs = v.([]string)
		}
	}
	return nil
}

type engineDeps struct {
	catalog  *fakeCatalog
	enricher *fakeEnricher
	media    *fakeMediaResolver
	cleaner  *fakeCleaner
	gateway  *fakeGateway
	parts    *memPartRepo
	synced   *memSyncedRepo
}

func newEngine(d *engineDeps) *SyncEngine {
	repos := &repository.Repositories{Part: d.parts, SyncedPart: d.synced}
	return NewSyncEngine(d.catalog, d.enricher, d.media, d.cleaner, d.gateway, repos, 100, zap.NewNop())
}

func newDeps(pages ...[]domain.RemotePart) *engineDeps {
	return &engineDeps{
		catalog:  &fakeCatalog{pages: pages},
		enricher: &fakeEnricher{bundles: map[string]*domain.EnrichmentBundle{}, skip: map[string]bool{}},
		media:    &fakeMediaResolver{},
		cleaner:  &fakeCleaner{},
		gateway:  &fakeGateway{},
		parts:    &memPartRepo{parts: map[string]*domain.RemotePart{}},
		synced:   &memSyncedRepo{records: map[string]*domain.SyncedPart{}},
	}
}

// --- tests -----------------------------------------------------------------

func TestSyncEngineCreatesNewPart(t *testing.T) {
	t.Parallel()

	part := testPart()
	part.PhotoGallery = []string{
		"https://cdn.example.com/img/a.jpg",
		"https://cdn.example.com/img/b.webp",
	}
	d := newDeps([]domain.RemotePart{*part})

	require.NoError(t, newEngine(d).Run(context.Background()))

	require.Len(t, d.gateway.creates, 1)
	assert.Equal(t, part.Name, d.gateway.creates[0].Title)
	require.Len(t, d.gateway.createMedia[0], 2)
	require.Len(t, d.gateway.variantCreate, 1)
	require.NotNil(t, d.gateway.variantCreate[0].InventoryQuantities)
	assert.Equal(t, 100, d.gateway.variantCreate[0].InventoryQuantities.AvailableQuantity)

	// Both store writes happened.
	assert.Contains(t, d.parts.parts, part.ID)
	rec, ok := d.synced.records[part.ID]
	require.True(t, ok)
	assert.Equal(t, "gid://shopify/Product/1", rec.ProductID)
	assert.Equal(t, "gid://shopify/Product/1/variant", rec.VariantID)
	assert.Equal(t, "gid://shopify/Product/1/inventory", rec.InventoryItemID)
	assert.Equal(t, part.EffectivePrice(), rec.Price)
	assert.Equal(t, "1997-2005", rec.Metafields["year"])
	assert.Len(t, rec.Media, 2)
	assert.Len(t, rec.MediaIDs, 2)

	// Rehosted objects were released after the stores were written.
	require.Len(t, d.cleaner.deleted, 1)
}

func TestSyncEngineSecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	part := testPart()
	part.PhotoGallery = []string{"https://cdn.example.com/img/a.jpg"}
	d := newDeps([]domain.RemotePart{*part})
	engine := newEngine(d)

	require.NoError(t, engine.Run(context.Background()))
	afterFirst := d.gateway.mutationCount()

	require.NoError(t, engine.Run(context.Background()))

	assert.Equal(t, afterFirst, d.gateway.mutationCount(), "second run must not mutate anything")
	assert.Empty(t, d.synced.merges)
	assert.Len(t, d.media.calls, 1, "unchanged media must not be re-resolved")
}

func TestSyncEngineSkipsUnenrichablePart(t *testing.T) {
	t.Parallel()

	skipped := testPart()
	good := testPart()
	good.ID = skipped.ID + "x"
	d := newDeps([]domain.RemotePart{*skipped, *good})
	d.enricher.skip[skipped.ID] = true

	require.NoError(t, newEngine(d).Run(context.Background()))

	// The skipped part touched neither Shopify nor the stores; its
	// neighbour still went through.
	require.Len(t, d.gateway.creates, 1)
	assert.Equal(t, good.Name, d.gateway.creates[0].Title)
	assert.NotContains(t, d.synced.records, skipped.ID)
	assert.Contains(t, d.synced.records, good.ID)
}

func TestSyncEngineDeduplicatesRepeatedFeedID(t *testing.T) {
	t.Parallel()

	part := testPart()
	d := newDeps([]domain.RemotePart{*part}, []domain.RemotePart{*part})

	require.NoError(t, newEngine(d).Run(context.Background()))

	assert.Len(t, d.gateway.creates, 1)
	assert.Len(t, d.synced.records, 1)
}

func TestSyncEngineRetiresOrphans(t *testing.T) {
	t.Parallel()

	part := testPart()
	bundle := testBundle()
	orphan := recordFor(&domain.RemotePart{ID: "gone-1"}, bundle)
	orphan.ProductID = "gid://shopify/Product/999"

	d := newDeps([]domain.RemotePart{*part})
	d.synced.records[part.ID] = recordFor(part, bundle)
	d.synced.records["gone-1"] = orphan

	require.NoError(t, newEngine(d).Run(context.Background()))

	// Exactly one status-only update, aimed at the orphan.
	require.Len(t, d.gateway.updates, 1)
	upd := d.gateway.updates[0].input
	assert.Equal(t, "gid://shopify/Product/999", upd.ID)
	assert.Equal(t, string(domain.ProductStatusDraft), upd.Status)
	assert.Empty(t, upd.Title)

	// The mirror row survives retirement.
	assert.Contains(t, d.synced.records, "gone-1")
	assert.Empty(t, d.synced.merges)
}

func TestSyncEngineAbortsOnFirstPageFailure(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.catalog.err = &apperrors.CatalogError{Page: 1, Err: errors.New("connection refused")}
	d.synced.records["p-1"] = recordFor(&domain.RemotePart{ID: "p-1"}, testBundle())

	err := newEngine(d).Run(context.Background())

	require.Error(t, err)
	var catErr *apperrors.CatalogError
	assert.ErrorAs(t, err, &catErr)
	// An aborted run must not mistake the whole catalog for orphans.
	assert.Zero(t, d.gateway.mutationCount())
}

func TestSyncEngineUpdatesChangedPart(t *testing.T) {
	t.Parallel()

	part := testPart()
	bundle := testBundle()
	d := newDeps([]domain.RemotePart{*part})
	existing := recordFor(part, bundle)
	existing.Price = "40.00"
	d.synced.records[part.ID] = existing

	require.NoError(t, newEngine(d).Run(context.Background()))

	require.Len(t, d.gateway.updates, 1)
	assert.Equal(t, existing.ProductID, d.gateway.updates[0].input.ID)
	require.Len(t, d.gateway.variantUpdate, 1)
	assert.Equal(t, part.EffectivePrice(), d.gateway.variantUpdate[0].Price)
	require.Len(t, d.gateway.variantUpdate[0].OptionValues, 1)
	assert.Equal(t, part.Name, d.gateway.variantUpdate[0].OptionValues[0].Name)

	// Merge carried only the changed field.
	require.Len(t, d.synced.merges, 1)
	assert.Equal(t, map[string]interface{}{"price": part.EffectivePrice()}, d.synced.merges[0])
	assert.Equal(t, part.EffectivePrice(), d.synced.records[part.ID].Price)

	// Unchanged media was neither resolved nor deleted.
	assert.Empty(t, d.media.calls)
	assert.Empty(t, d.gateway.mediaDeletes)
}

func TestSyncEngineReplacesMediaOnPresenceFlip(t *testing.T) {
	t.Parallel()

	part := testPart()
	part.PhotoGallery = []string{"https://cdn.example.com/img/new.jpg"}
	bundle := testBundle()
	d := newDeps([]domain.RemotePart{*part})
	existing := recordFor(part, bundle)
	existing.MediaIDs = []string{"gid://shopify/MediaImage/old"}
	// Existing row has ids but no descriptors recorded: presence flipped.
	d.synced.records[part.ID] = existing

	require.NoError(t, newEngine(d).Run(context.Background()))

	require.Len(t, d.media.calls, 1)
	require.Len(t, d.gateway.mediaDeletes, 1)
	assert.Equal(t, []string{"gid://shopify/MediaImage/old"}, d.gateway.mediaDeletes[0])
	require.Len(t, d.gateway.updates, 1)
	assert.Len(t, d.gateway.updates[0].media, 1)

	require.Len(t, d.synced.merges, 1)
	merged := d.synced.merges[0]
	assert.Contains(t, merged, "media")
	assert.Contains(t, merged, "mediaIds")
}

func TestSyncEngineMediaFailureFailsPartOnly(t *testing.T) {
	t.Parallel()

	broken := testPart()
	broken.Photo = "https://cdn.example.com/img/broken.jpg"
	good := testPart()
	good.ID = broken.ID + "x"
	d := newDeps([]domain.RemotePart{*broken, *good})
	d.media.err = &apperrors.MediaFetchError{URL: broken.Photo, Status: 403}

	require.NoError(t, newEngine(d).Run(context.Background()))

	assert.NotContains(t, d.synced.records, broken.ID)
	assert.Contains(t, d.synced.records, good.ID)
	require.Len(t, d.gateway.creates, 1)
}
