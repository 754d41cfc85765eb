package contract

// Limits carries the derivation caps. The defaults mirror the upstream
// system's observed behavior; they are configurable rather than hard-coded
// because no stated rationale exists for the exact values, and product
// confirmation is pending before any change.
type Limits struct {
	// ListColumns caps the list view column count, identifier included.
	ListColumns int
	// ListFilters caps the list view filter count.
	ListFilters int
	// ChildColumns caps the columns derived for an embedded child table.
	ChildColumns int
}

// DefaultLimits returns the caps observed upstream: 8 columns, 8 filters,
// 4 child-table columns.
func DefaultLimits() Limits {
	return Limits{ListColumns: 8, ListFilters: 8, ChildColumns: 4}
}

func (l Limits) normalize() Limits {
	defaults := DefaultLimits()
	if l.ListColumns <= 0 {
		l.ListColumns = defaults.ListColumns
	}
	if l.ListFilters <= 0 {
		l.ListFilters = defaults.ListFilters
	}
	if l.ChildColumns <= 0 {
		l.ChildColumns = defaults.ChildColumns
	}
	return l
}
