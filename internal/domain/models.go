package domain

import (
	"time"
)

// RemotePart is one record from the parts catalog API. It is owned by the
// external catalog and never mutated locally except for media resolution.
type RemotePart struct {
	ID               string   `json:"id" bson:"id"`
	Name             string   `json:"name" bson:"name"`
	Notes            string   `json:"notes" bson:"notes"`
	Photo            string   `json:"photo" bson:"photo"`
	PhotoGallery     []string `json:"part_photo_gallery" bson:"part_photo_gallery"`
	OriginalPrice    string   `json:"original_price" bson:"original_price"`
	Price            string   `json:"price" bson:"price"`
	ManufacturerCode string   `json:"manufacturer_code" bson:"manufacturer_code"`
	CarID            int64    `json:"car_id" bson:"car_id"`
	CategoryID       string   `json:"category_id" bson:"category_id"`
	Status           string   `json:"status" bson:"status"`
}

// PhotoRefs returns the image references for the part: the gallery when
// present, otherwise the single photo field.
func (p *RemotePart) PhotoRefs() []string {
	if len(p.PhotoGallery) > 0 {
		return p.PhotoGallery
	}
	if p.Photo != "" {
		return []string{p.Photo}
	}
	return nil
}

// HasPhotos reports whether the part carries any image reference.
func (p *RemotePart) HasPhotos() bool {
	return len(p.PhotoGallery) > 0 || p.Photo != ""
}

// EffectivePrice is the price written to Shopify: original_price, falling
// back to price, falling back to "0.00".
func (p *RemotePart) EffectivePrice() string {
	if p.OriginalPrice != "" {
		return p.OriginalPrice
	}
	if p.Price != "" {
		return p.Price
	}
	return "0.00"
}

// EnrichmentBundle holds the reference data resolved for a part before it
// may be created or updated. All fields must be present; a partial bundle
// is a skip condition, not an error.
type EnrichmentBundle struct {
	ModelName     string
	YearStart     string
	YearEnd       string
	BrandName     string
	CategoryLabel string
}

// YearRange renders the "year_start-year_end" metafield value.
func (b *EnrichmentBundle) YearRange() string {
	return b.YearStart + "-" + b.YearEnd
}

// MediaDescriptor references one product image in the shape Shopify's
// CreateMediaInput expects. OriginalSource is either the catalog CDN URL
// unchanged or a freshly rehosted object URL.
type MediaDescriptor struct {
	MediaContentType string `json:"mediaContentType" bson:"mediaContentType"`
	OriginalSource   string `json:"originalSource" bson:"originalSource"`
}

// SyncedPart is the local mirror row for a part that has been successfully
// created in Shopify. One row per remote part id, created on first create,
// merged on every update, never deleted by normal operation.
type SyncedPart struct {
	RemotePartID    string            `json:"rrr_partId" bson:"rrr_partId"`
	ProductID       string            `json:"shopifyProductId" bson:"shopifyProductId"`
	VariantID       string            `json:"shopifyVariantId" bson:"shopifyVariantId"`
	InventoryItemID string            `json:"shopifyInventoryItemId" bson:"shopifyInventoryItemId"`
	Metafields      map[string]string `json:"metafields" bson:"metafields"`
	Title           string            `json:"title" bson:"title"`
	Price           string            `json:"price" bson:"price"`
	Barcode         string            `json:"barcode" bson:"barcode"`
	Description     string            `json:"description" bson:"description"`
	Media           []MediaDescriptor `json:"media" bson:"media"`
	MediaIDs        []string          `json:"mediaIds" bson:"mediaIds"`
	CreatedAt       time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// WebhookEvent is the inbound status-change event envelope.
type WebhookEvent struct {
	EventType string           `json:"event_type"`
	EventData WebhookEventData `json:"event_data"`
}

// WebhookEventData carries the payload of a part.status.changed event.
type WebhookEventData struct {
	PartID string `json:"part_id"`
	Status string `json:"status"`
}
