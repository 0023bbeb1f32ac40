package obs

import (
	"expvar"
	"strconv"
)

// Counter names.
const (
	ItemsCreated  = "items_created"
	ItemsUpdated  = "items_updated"
	ItemsDeleted  = "items_deleted"
	ListsCreated  = "lists_created"
	ListsUpdated  = "lists_updated"
	ListsDeleted  = "lists_deleted"
	MutationsFail = "mutations_failed"
)

// counters is published under /debug/vars as "lists".
var counters = expvar.NewMap("lists")

// Count adds n to the named counter.
func Count(name string, n int64) { counters.Add(name, n) }

// Snapshot returns the current counter values.
func Snapshot() map[string]int64 {
	out := map[string]int64{}
	counters.Do(func(kv expvar.KeyValue) {
		n, _ := strconv.ParseInt(kv.Value.String(), 10, 64)
		out[kv.Key] = n
	})
	return out
}
