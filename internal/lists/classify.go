package lists

import (
	"github.com/fairyhunter13/shopping-list-service/internal/model"
	"github.com/fairyhunter13/shopping-list-service/internal/obs"
)

// Plan is the partition of a submitted item set by intent.
type Plan struct {
	Add    []model.Item
	Update []model.Item
	Delete []model.Item
}

// Classify deduplicates items by product key, keeping the last submitted
// item per key, and partitions the survivors:
//
//	no id                 -> Add
//	id and quantity == 0  -> Delete
//	id and quantity > 0   -> Update
//
// Groups are emitted in order of each key's first appearance.
func Classify(items []model.Item) Plan {
	var order []model.ItemKey
	last := make(map[model.ItemKey]model.Item, len(items))
	for _, it := range items {
		k := it.Key()
		if _, seen := last[k]; !seen {
			order = append(order, k)
		}
		last[k] = it
	}

	var p Plan
	for _, k := range order {
		it := last[k]
		switch {
		case !it.HasID():
			if it.Quantity == 0 {
				obs.Logger.Warn("new_item_zero_quantity", "sku_id", it.SkuID)
			}
			p.Add = append(p.Add, it)
		case it.Quantity == 0:
			p.Delete = append(p.Delete, it)
		default:
			p.Update = append(p.Update, it)
		}
	}
	return p
}
