// Package lists implements list reconciliation and the list query/mutation
// operations on top of a document store and a product catalog.
package lists

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/fairyhunter13/shopping-list-service/internal/docstore"
	"github.com/fairyhunter13/shopping-list-service/internal/model"
)

// Fixed read projections.
var (
	ListFields = []string{"id", "owner", "name", "isPublic", "items"}
	ItemFields = []string{"id", "skuId", "productId", "name", "quantity"}
)

// Normalize flattens fields into the store's string representation.
// Scalars are stringified; slices, maps and structs become JSON.
func Normalize(fields map[string]any) docstore.Document {
	doc := make(docstore.Document, len(fields))
	for k, v := range fields {
		doc[k] = stringify(v)
	}
	return doc
}

func stringify(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}

func itemFromDocument(doc docstore.Document) (model.Item, error) {
	it := model.Item{
		ID:        doc["id"],
		SkuID:     doc["skuId"],
		ProductID: doc["productId"],
		Name:      doc["name"],
	}
	if q := doc["quantity"]; q != "" {
		n, err := cast.ToInt64E(q)
		if err != nil {
			return model.Item{}, fmt.Errorf("item %s: bad quantity %q: %w", it.ID, q, err)
		}
		it.Quantity = n
	}
	return it, nil
}

// listFromDocument decodes a stored list and its item id sequence.
func listFromDocument(doc docstore.Document) (model.List, []string, error) {
	l := model.List{
		ID:       doc["id"],
		Owner:    doc["owner"],
		Name:     doc["name"],
		IsPublic: cast.ToBool(doc["isPublic"]),
	}
	var ids []string
	if raw := strings.TrimSpace(doc["items"]); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return model.List{}, nil, fmt.Errorf("list %s: bad items field: %w", l.ID, err)
		}
	}
	return l, ids, nil
}
