package shopify

// ProductCreateMutation creates a product with its media attached
const ProductCreateMutation = `
mutation productCreate($input: ProductCreateInput!, $media: [CreateMediaInput!]) {
  productCreate(product: $input, media: $media) {
    product {
      id
      title
      description
      variants(first: 1) {
        edges {
          node {
            id
          }
        }
      }
      media(first: 250) {
        edges {
          node {
            id
          }
        }
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductUpdateMutation updates a product's core fields, status and metafields
const ProductUpdateMutation = `
mutation productUpdate($input: ProductUpdateInput!, $media: [CreateMediaInput!]) {
  productUpdate(product: $input, media: $media) {
    product {
      id
      media(first: 250) {
        edges {
          node {
            id
          }
        }
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// VariantsBulkCreateMutation creates variants for a product
const VariantsBulkCreateMutation = `
mutation productVariantsBulkCreate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkCreate(productId: $productId, variants: $variants) {
    productVariants {
      id
      price
      barcode
      inventoryItem {
        id
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// VariantsBulkUpdateMutation updates existing variants of a product
const VariantsBulkUpdateMutation = `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants {
      id
      price
      barcode
      inventoryItem {
        id
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductDeleteMediaMutation detaches media from a product before new
// images are uploaded on an update
const ProductDeleteMediaMutation = `
mutation productDeleteMedia($productId: ID!, $mediaIds: [ID!]!) {
  productDeleteMedia(productId: $productId, mediaIds: $mediaIds) {
    deletedMediaIds
    userErrors {
      field
      message
    }
  }
}
`

// InventoryAdjustQuantitiesMutation applies a delta to an inventory level
const InventoryAdjustQuantitiesMutation = `
mutation inventoryAdjustQuantities($input: InventoryAdjustQuantitiesInput!) {
  inventoryAdjustQuantities(input: $input) {
    inventoryAdjustmentGroup {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductCreateInput is the product payload for productCreate/productUpdate.
// On update ID is set and Status carries the derived ACTIVE/DRAFT state.
type ProductCreateInput struct {
	ID              string           `json:"id,omitempty"`
	Title           string           `json:"title,omitempty"`
	DescriptionHtml string           `json:"descriptionHtml,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Status          string           `json:"status,omitempty"`
	Metafields      []MetafieldInput `json:"metafields,omitempty"`
}

// MetafieldInput is one custom-namespace metafield on a product
type MetafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// VariantInput is one entry of productVariantsBulkCreate/Update
type VariantInput struct {
	ID                  string                    `json:"id,omitempty"`
	Price               string                    `json:"price"`
	Barcode             string                    `json:"barcode"`
	OptionValues        []OptionValueInput        `json:"optionValues,omitempty"`
	InventoryQuantities *InventoryQuantitiesInput `json:"inventoryQuantities,omitempty"`
}

// OptionValueInput binds a variant to a product option
type OptionValueInput struct {
	OptionID string `json:"optionId"`
	Name     string `json:"name"`
}

// InventoryQuantitiesInput seeds the starting stock for a new variant
type InventoryQuantitiesInput struct {
	LocationID        string `json:"locationId"`
	AvailableQuantity int    `json:"availableQuantity"`
}
