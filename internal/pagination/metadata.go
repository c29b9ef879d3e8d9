package pagination

// Meta is the display metadata of a list after one or more fetches.
type Meta struct {
	// Shown is the number of items materialized client side.
	Shown int `json:"shown" yaml:"shown"`

	// Total is the server-reported total, or -1 when unknown.
	Total int `json:"total" yaml:"total"`

	// HasMore is false once the list is known to be exhausted.
	HasMore bool `json:"has_more" yaml:"has_more"`
}

// UnknownTotal is the Meta.Total value when no range descriptor was available.
const UnknownTotal = -1

// NewMeta builds metadata from the last response range (if any) and the rendered count.
func NewMeta(r Range, ok bool, shown int, exhausted bool) Meta {
	total := UnknownTotal
	if ok {
		total = r.Total
	}
	hasMore := !exhausted
	if ok && shown >= r.Total {
		hasMore = false
	}
	return Meta{Shown: shown, Total: total, HasMore: hasMore}
}

// TotalKnown reports whether the server total is available.
func (m Meta) TotalKnown() bool {
	return m.Total != UnknownTotal
}
