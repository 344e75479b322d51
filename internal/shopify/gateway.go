package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/config"
	"github.com/yashpatel5000/auto-part/internal/domain"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// Gateway is the typed boundary to the Shopify Admin GraphQL API. Every
// mutation's userErrors list is checked; a non-empty list is a hard failure
// for that operation.
type Gateway struct {
	client *Client
	logger *zap.Logger
}

// NewGateway creates a Gateway over a fresh GraphQL client
func NewGateway(cfg config.ShopifyConfig, logger *zap.Logger) *Gateway {
	return &Gateway{
		client: NewClient(cfg, logger),
		logger: logger,
	}
}

// CreatedProduct is the subset of productCreate's response the sync engine
// needs to persist the mirror record.
type CreatedProduct struct {
	ProductID      string
	Title          string
	Description    string
	FirstVariantID string
	MediaIDs       []string
}

// VariantResult is the first variant returned by a bulk create/update.
type VariantResult struct {
	VariantID       string
	Price           string
	Barcode         string
	InventoryItemID string
}

type idNode struct {
	ID string `json:"id"`
}

type edgeList struct {
	Edges []struct {
		Node idNode `json:"node"`
	} `json:"edges"`
}

func (l edgeList) ids() []string {
	out := make([]string, 0, len(l.Edges))
	for _, e := range l.Edges {
		out = append(out, e.Node.ID)
	}
	return out
}

// CreateProduct issues productCreate with the media batch attached.
func (g *Gateway) CreateProduct(ctx context.Context, input ProductCreateInput, media []domain.MediaDescriptor) (*CreatedProduct, error) {
	variables := map[string]interface{}{
		"input": input,
	}
	if len(media) > 0 {
		variables["media"] = media
	}

	resp, err := g.client.Execute(ctx, ProductCreateMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("product create: %w", err)
	}

	var result struct {
		ProductCreate struct {
			Product struct {
				ID          string   `json:"id"`
				Title       string   `json:"title"`
				Description string   `json:"description"`
				Variants    edgeList `json:"variants"`
				Media       edgeList `json:"media"`
			} `json:"product"`
			UserErrors []apperrors.FieldError `json:"userErrors"`
		} `json:"productCreate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse product create response: %w", err)
	}
	if len(result.ProductCreate.UserErrors) > 0 {
		return nil, &apperrors.UserError{Operation: "productCreate", Errors: result.ProductCreate.UserErrors}
	}

	created := &CreatedProduct{
		ProductID:   result.ProductCreate.Product.ID,
		Title:       result.ProductCreate.Product.Title,
		Description: result.ProductCreate.Product.Description,
		MediaIDs:    result.ProductCreate.Product.Media.ids(),
	}
	if variantIDs := result.ProductCreate.Product.Variants.ids(); len(variantIDs) > 0 {
		created.FirstVariantID = variantIDs[0]
	}
	return created, nil
}

// UpdateProduct issues productUpdate; returns the product's media ids after
// the mutation (new media included when attached).
func (g *Gateway) UpdateProduct(ctx context.Context, input ProductCreateInput, media []domain.MediaDescriptor) ([]string, error) {
	variables := map[string]interface{}{
		"input": input,
	}
	if len(media) > 0 {
		variables["media"] = media
	}

	resp, err := g.client.Execute(ctx, ProductUpdateMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("product update: %w", err)
	}

	var result struct {
		ProductUpdate struct {
			Product struct {
				ID    string   `json:"id"`
				Media edgeList `json:"media"`
			} `json:"product"`
			UserErrors []apperrors.FieldError `json:"userErrors"`
		} `json:"productUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse product update response: %w", err)
	}
	if len(result.ProductUpdate.UserErrors) > 0 {
		return nil, &apperrors.UserError{Operation: "productUpdate", Errors: result.ProductUpdate.UserErrors}
	}
	return result.ProductUpdate.Product.Media.ids(), nil
}

// CreateVariants issues productVariantsBulkCreate and returns the first
// created variant.
func (g *Gateway) CreateVariants(ctx context.Context, productID string, variants []VariantInput) (*VariantResult, error) {
	return g.bulkVariants(ctx, VariantsBulkCreateMutation, "productVariantsBulkCreate", productID, variants)
}

// UpdateVariants issues productVariantsBulkUpdate and returns the first
// updated variant.
func (g *Gateway) UpdateVariants(ctx context.Context, productID string, variants []VariantInput) (*VariantResult, error) {
	return g.bulkVariants(ctx, VariantsBulkUpdateMutation, "productVariantsBulkUpdate", productID, variants)
}

func (g *Gateway) bulkVariants(ctx context.Context, mutation, operation, productID string, variants []VariantInput) (*VariantResult, error) {
	variables := map[string]interface{}{
		"productId": productID,
		"variants":  variants,
	}

	resp, err := g.client.Execute(ctx, mutation, variables)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	var payload struct {
		ProductVariants []struct {
			ID            string `json:"id"`
			Price         string `json:"price"`
			Barcode       string `json:"barcode"`
			InventoryItem idNode `json:"inventoryItem"`
		} `json:"productVariants"`
		UserErrors []apperrors.FieldError `json:"userErrors"`
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", operation, err)
	}
	if err := json.Unmarshal(envelope[operation], &payload); err != nil {
		return nil, fmt.Errorf("parse %s payload: %w", operation, err)
	}
	if len(payload.UserErrors) > 0 {
		return nil, &apperrors.UserError{Operation: operation, Errors: payload.UserErrors}
	}
	if len(payload.ProductVariants) == 0 {
		return nil, fmt.Errorf("%s returned no variants for product %s", operation, productID)
	}

	v := payload.ProductVariants[0]
	return &VariantResult{
		VariantID:       v.ID,
		Price:           v.Price,
		Barcode:         v.Barcode,
		InventoryItemID: v.InventoryItem.ID,
	}, nil
}

// DeleteProductMedia detaches the given media from a product.
func (g *Gateway) DeleteProductMedia(ctx context.Context, productID string, mediaIDs []string) error {
	if len(mediaIDs) == 0 {
		return nil
	}
	variables := map[string]interface{}{
		"productId": productID,
		"mediaIds":  mediaIDs,
	}

	resp, err := g.client.Execute(ctx, ProductDeleteMediaMutation, variables)
	if err != nil {
		return fmt.Errorf("product delete media: %w", err)
	}

	var result struct {
		ProductDeleteMedia struct {
			DeletedMediaIDs []string               `json:"deletedMediaIds"`
			UserErrors      []apperrors.FieldError `json:"userErrors"`
		} `json:"productDeleteMedia"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("parse product delete media response: %w", err)
	}
	if len(result.ProductDeleteMedia.UserErrors) > 0 {
		return &apperrors.UserError{Operation: "productDeleteMedia", Errors: result.ProductDeleteMedia.UserErrors}
	}
	return nil
}

// DefaultLocationID resolves the store's default location (first location).
func (g *Gateway) DefaultLocationID(ctx context.Context) (string, error) {
	resp, err := g.client.Execute(ctx, LocationsQuery, nil)
	if err != nil {
		return "", fmt.Errorf("get locations: %w", err)
	}

	var result struct {
		Locations edgeList `json:"locations"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", fmt.Errorf("parse locations response: %w", err)
	}
	ids := result.Locations.ids()
	if len(ids) == 0 {
		return "", fmt.Errorf("store has no locations")
	}
	return ids[0], nil
}

// ProductOptionID resolves the first option id of a product.
func (g *Gateway) ProductOptionID(ctx context.Context, productID string) (string, error) {
	resp, err := g.client.Execute(ctx, ProductOptionsQuery, map[string]interface{}{"id": productID})
	if err != nil {
		return "", fmt.Errorf("get product options: %w", err)
	}

	var result struct {
		Product struct {
			Options []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"options"`
		} `json:"product"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", fmt.Errorf("parse product options response: %w", err)
	}
	if len(result.Product.Options) == 0 {
		return "", fmt.Errorf("product %s has no options", productID)
	}
	return result.Product.Options[0].ID, nil
}

// AvailableQuantity reads the available quantity of an inventory item at
// its first inventory level.
func (g *Gateway) AvailableQuantity(ctx context.Context, inventoryItemID string) (int, error) {
	resp, err := g.client.Execute(ctx, InventoryLevelsQuery, map[string]interface{}{"id": inventoryItemID})
	if err != nil {
		return 0, fmt.Errorf("get inventory levels: %w", err)
	}

	var result struct {
		InventoryItem struct {
			InventoryLevels struct {
				Edges []struct {
					Node struct {
						Quantities []struct {
							Name     string `json:"name"`
							Quantity int    `json:"quantity"`
						} `json:"quantities"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"inventoryLevels"`
		} `json:"inventoryItem"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return 0, fmt.Errorf("parse inventory levels response: %w", err)
	}
	edges := result.InventoryItem.InventoryLevels.Edges
	if len(edges) == 0 || len(edges[0].Node.Quantities) == 0 {
		return 0, fmt.Errorf("inventory item %s has no levels", inventoryItemID)
	}
	return edges[0].Node.Quantities[0].Quantity, nil
}

// AdjustInventory applies a delta to the available quantity of an inventory
// item at a location.
func (g *Gateway) AdjustInventory(ctx context.Context, inventoryItemID, locationID string, delta int) error {
	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"reason": "correction",
			"name":   "available",
			"changes": []map[string]interface{}{
				{
					"inventoryItemId": inventoryItemID,
					"locationId":      locationID,
					"delta":           delta,
				},
			},
		},
	}

	resp, err := g.client.Execute(ctx, InventoryAdjustQuantitiesMutation, variables)
	if err != nil {
		return fmt.Errorf("inventory adjust: %w", err)
	}

	var result struct {
		InventoryAdjustQuantities struct {
			UserErrors []apperrors.FieldError `json:"userErrors"`
		} `json:"inventoryAdjustQuantities"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("parse inventory adjust response: %w", err)
	}
	if len(result.InventoryAdjustQuantities.UserErrors) > 0 {
		return &apperrors.UserError{Operation: "inventoryAdjustQuantities", Errors: result.InventoryAdjustQuantities.UserErrors}
	}
	return nil
}
