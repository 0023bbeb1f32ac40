// Package model defines domain types used by the service.
package model

import "fmt"

// Item is a product reference with a quantity inside a list.
// An item without ID has not been persisted yet.
type Item struct {
	ID        string `json:"id,omitempty"`
	SkuID     string `json:"skuId"`
	ProductID string `json:"productId,omitempty"`
	Name      string `json:"name,omitempty"`
	Quantity  int64  `json:"quantity"`
}

// HasID reports whether the item already exists in the document store.
func (it Item) HasID() bool { return it.ID != "" }

// ItemKey identifies the product an item refers to. Exactly one of SkuID
// and ID is set, so sku keys and id keys never collide.
type ItemKey struct {
	SkuID string
	ID    string
}

// Key returns the item's dedup key. Stored items submitted without a skuId
// are keyed by their id.
func (it Item) Key() ItemKey {
	if it.SkuID != "" {
		return ItemKey{SkuID: it.SkuID}
	}
	return ItemKey{ID: it.ID}
}

// Fields returns the item's set fields keyed by their document names.
func (it Item) Fields() map[string]any {
	f := map[string]any{"quantity": it.Quantity}
	if it.SkuID != "" {
		f["skuId"] = it.SkuID
	}
	if it.ID != "" {
		f["id"] = it.ID
	}
	if it.ProductID != "" {
		f["productId"] = it.ProductID
	}
	if it.Name != "" {
		f["name"] = it.Name
	}
	return f
}

// Product is a catalog record resolved by SKU.
type Product struct {
	ProductID   string  `json:"productId" yaml:"productId"`
	ProductName string  `json:"productName" yaml:"productName"`
	Brand       string  `json:"brand,omitempty" yaml:"brand"`
	SkuID       string  `json:"skuId" yaml:"skuId"`
	SkuName     string  `json:"skuName,omitempty" yaml:"skuName"`
	ImageURL    string  `json:"imageUrl,omitempty" yaml:"imageUrl"`
	Price       float64 `json:"price" yaml:"price"`
}

// EnrichedItem is an item composed with its live catalog product.
// Product is nil when the catalog has no record for the SKU.
type EnrichedItem struct {
	Item
	Product *Product `json:"product"`
}

// List is a named, owned collection of item references.
type List struct {
	ID       string         `json:"id"`
	Owner    string         `json:"owner"`
	Name     string         `json:"name,omitempty"`
	IsPublic bool           `json:"isPublic"`
	Items    []EnrichedItem `json:"items"`
}

// ListInput is the client payload of createList and updateList.
// Nil or empty descriptive fields are left untouched on update.
type ListInput struct {
	Owner    string `json:"owner,omitempty"`
	Name     string `json:"name,omitempty"`
	IsPublic *bool  `json:"isPublic,omitempty"`
	Items    []Item `json:"items"`
}

// Fields returns the descriptive fields present on the input.
func (in ListInput) Fields() map[string]any {
	f := map[string]any{}
	if in.Owner != "" {
		f["owner"] = in.Owner
	}
	if in.Name != "" {
		f["name"] = in.Name
	}
	if in.IsPublic != nil {
		f["isPublic"] = *in.IsPublic
	}
	return f
}

// ValidationError reports a malformed submitted item.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid item at position %d: %s", e.Index, e.Reason)
}

// ValidateItems checks the structural preconditions of a submitted item set.
func ValidateItems(items []Item) error {
	for i, it := range items {
		if it.SkuID == "" && it.ID == "" {
			return &ValidationError{Index: i, Reason: "skuId is required for new items"}
		}
		if it.Quantity < 0 {
			return &ValidationError{Index: i, Reason: "quantity must be >= 0"}
		}
	}
	return nil
}
