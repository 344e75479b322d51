package domain

// ProductStatus represents a Shopify product status
type ProductStatus string

const (
	// ACTIVE - product is visible and purchasable
	ProductStatusActive ProductStatus = "ACTIVE"
	// DRAFT - product is hidden from the storefront; used both for
	// zero-priced parts and for retired (orphaned) ones
	ProductStatusDraft ProductStatus = "DRAFT"
)

// PartStatus values as reported by the parts API in RemotePart.Status
const (
	// "0" means the part is in stock at the supplier
	PartStatusInStock = "0"
)

// WebhookStatusInWarehouse is the status value on a part.status.changed
// event that restocks the part; every other value zeroes the inventory.
const WebhookStatusInWarehouse = "in_warehouse"
