package docstore

// Condition is a single field equality term of a search filter.
// Values are compared verbatim; no trimming or escaping is applied.
type Condition struct {
	Field string
	Value string
}

// Eq returns the condition field == value.
func Eq(field, value string) Condition { return Condition{Field: field, Value: value} }

// Match reports whether doc satisfies every condition. An empty filter
// matches every document.
func Match(doc Document, conds []Condition) bool {
	for _, c := range conds {
		if v, ok := doc[c.Field]; !ok || v != c.Value {
			return false
		}
	}
	return true
}
