package service

import (
	"strconv"

	"github.com/yashpatel5000/auto-part/internal/domain"
	"github.com/yashpatel5000/auto-part/internal/shopify"
)

const (
	defaultTitle       = "No Title"
	defaultDescription = "No description"
	partsTag           = "parts"

	metafieldNamespace = "custom"
	metafieldType      = "single_line_text_field"

	// startingQuantity is the stock seeded for a part the supplier reports
	// as in stock.
	startingQuantity = 100
)

// Mapping from (part, enrichment) to the Shopify payload shapes lives here.
// Everything in this file is a pure function: no I/O, no clock, no state.

func safeTitle(part *domain.RemotePart) string {
	if part.Name != "" {
		return part.Name
	}
	return defaultTitle
}

func safeDescription(part *domain.RemotePart) string {
	if part.Notes != "" {
		return part.Notes
	}
	return defaultDescription
}

// MetafieldValues renders the five enrichment-derived metafields as the flat
// key→value map mirrored into the local record.
func MetafieldValues(part *domain.RemotePart, b *domain.EnrichmentBundle) map[string]string {
	return map[string]string{
		"year":         b.YearRange(),
		"car":          b.BrandName,
		"part_number":  part.ID,
		"model":        b.ModelName,
		"product_type": b.CategoryLabel,
	}
}

func metafieldInput(key, value string) shopify.MetafieldInput {
	return shopify.MetafieldInput{
		Namespace: metafieldNamespace,
		Key:       key,
		Type:      metafieldType,
		Value:     value,
	}
}

// BuildCreatePayload maps a new part to the productCreate input.
func BuildCreatePayload(part *domain.RemotePart, b *domain.EnrichmentBundle) shopify.ProductCreateInput {
	values := MetafieldValues(part, b)
	metafields := []shopify.MetafieldInput{
		metafieldInput("year", values["year"]),
		metafieldInput("car", values["car"]),
		metafieldInput("part_number", values["part_number"]),
		metafieldInput("model", values["model"]),
		metafieldInput("product_type", values["product_type"]),
	}

	return shopify.ProductCreateInput{
		Title:           safeTitle(part),
		DescriptionHtml: safeDescription(part),
		Tags:            []string{partsTag},
		Metafields:      metafields,
	}
}

// BuildCreateVariant maps a new part to its variant input. A part the
// supplier reports in stock gets a starting-quantity directive at the
// default location.
func BuildCreateVariant(part *domain.RemotePart, optionID, locationID string) shopify.VariantInput {
	v := shopify.VariantInput{
		Price:   part.EffectivePrice(),
		Barcode: part.ManufacturerCode,
		OptionValues: []shopify.OptionValueInput{
			{OptionID: optionID, Name: part.Name},
		},
	}
	if part.Status == domain.PartStatusInStock {
		v.InventoryQuantities = &shopify.InventoryQuantitiesInput{
			LocationID:        locationID,
			AvailableQuantity: startingQuantity,
		}
	}
	return v
}

// UpdatePlan is the outcome of diffing a part against its stored mirror
// record. Product always carries title/description/status; Metafields holds
// only the changed entries.
type UpdatePlan struct {
	Product shopify.ProductCreateInput
	Variant shopify.VariantInput

	// ChangedMetafields are the metafield values that differ from the
	// stored record, for the $set merge after the mutation succeeds.
	ChangedMetafields map[string]string

	TitleChanged       bool
	PriceChanged       bool
	BarcodeChanged     bool
	DescriptionChanged bool
	// MediaChanged is a presence flip: the part gained or lost its photo
	// references relative to the stored record.
	MediaChanged bool
}

// BuildUpdatePayload diffs the part against the stored record. The second
// return is false when nothing changed: the caller makes no network calls
// at all in that case.
func BuildUpdatePayload(part *domain.RemotePart, b *domain.EnrichmentBundle, existing *domain.SyncedPart) (*UpdatePlan, bool) {
	values := MetafieldValues(part, b)

	changedValues := make(map[string]string)
	var changedInputs []shopify.MetafieldInput
	for _, key := range []string{"year", "car", "part_number", "model", "product_type"} {
		if existing.Metafields[key] != values[key] {
			changedValues[key] = values[key]
			changedInputs = append(changedInputs, metafieldInput(key, values[key]))
		}
	}

	plan := &UpdatePlan{
		ChangedMetafields:  changedValues,
		TitleChanged:       safeTitle(part) != existing.Title,
		PriceChanged:       part.EffectivePrice() != existing.Price,
		BarcodeChanged:     part.ManufacturerCode != existing.Barcode,
		DescriptionChanged: safeDescription(part) != existing.Description,
		MediaChanged:       part.HasPhotos() != (len(existing.Media) > 0),
	}

	if len(changedValues) == 0 &&
		!plan.TitleChanged && !plan.PriceChanged && !plan.BarcodeChanged &&
		!plan.DescriptionChanged && !plan.MediaChanged {
		return nil, false
	}

	plan.Product = shopify.ProductCreateInput{
		ID:              existing.ProductID,
		Title:           safeTitle(part),
		DescriptionHtml: safeDescription(part),
		Status:          string(deriveStatus(part)),
		Metafields:      changedInputs,
	}
	plan.Variant = shopify.VariantInput{
		ID:      existing.VariantID,
		Price:   part.EffectivePrice(),
		Barcode: part.ManufacturerCode,
	}
	return plan, true
}

// deriveStatus makes a zero-priced part non-purchasable instead of selling
// it for free.
func deriveStatus(part *domain.RemotePart) domain.ProductStatus {
	price, err := strconv.ParseFloat(part.EffectivePrice(), 64)
	if err == nil && price == 0 {
		return domain.ProductStatusDraft
	}
	return domain.ProductStatusActive
}
