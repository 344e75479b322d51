package shopify

// LocationsQuery fetches the store's locations; the first one is the
// default location used for all inventory operations
const LocationsQuery = `
query {
  locations(first: 5) {
    edges {
      node {
        id
        name
      }
    }
  }
}
`

// ProductOptionsQuery fetches a product's options; variants need the first
// option's id to bind their option values
const ProductOptionsQuery = `
query GetProductOptions($id: ID!) {
  product(id: $id) {
    options {
      id
      name
      values
    }
  }
}
`

// InventoryLevelsQuery reads the available quantities of an inventory item
// across its levels
const InventoryLevelsQuery = `
query GetInventoryLevels($id: ID!) {
  inventoryItem(id: $id) {
    id
    inventoryLevels(first: 10) {
      edges {
        node {
          id
          quantities(names: "available") {
            name
            quantity
          }
        }
      }
    }
  }
}
`
