package domain

// PivotRow is one ranked row of the eventId-by-host count matrix.
// Total always equals the sum of PerHost values.
type PivotRow struct {
	EventID int                    `json:"eventId"`
	PerHost map[HostIdentifier]int `json:"perHost"`
	Total   int                    `json:"total"`
}

// PivotTable is the ranked count matrix: rows sorted by total
// descending, ties broken by eventId ascending. Hosts fixes the column
// order; only hosts that produced at least one successful query appear.
// Immutable once built.
type PivotTable struct {
	Hosts []HostIdentifier `json:"hosts"`
	Rows  []PivotRow       `json:"rows"`
}

// Count returns a row's count for one host, defaulting absent entries to 0.
func (r PivotRow) Count(host HostIdentifier) int {
	return r.PerHost[host]
}
