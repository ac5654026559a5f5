// Package aggregate reshapes raw per-host event counts into the ranked
// pivot table.
package aggregate

import (
	"sort"

	"github.com/evtop/evtop/internal/domain"
)

// Build groups records by event identifier and pivots them into a table
// with one column per host plus a total. Counts for the same numeric
// event identifier are merged across log categories. Rows are sorted by
// total descending, ties broken by eventId ascending. topN <= 0 returns
// all rows; otherwise at most topN rows are returned.
func Build(records []domain.CountRecord, hosts []domain.HostIdentifier, topN int) domain.PivotTable {
	columns := make(map[domain.HostIdentifier]bool, len(hosts))
	for _, h := range hosts {
		columns[h] = true
	}

	// Merge by (eventId, host) first: System and Application occurrences
	// of the same identifier sum into one logical row.
	byEvent := make(map[int]map[domain.HostIdentifier]int)
	for _, rec := range records {
		if !columns[rec.Host] {
			continue
		}
		perHost := byEvent[rec.EventID]
		if perHost == nil {
			perHost = make(map[domain.HostIdentifier]int, len(hosts))
			byEvent[rec.EventID] = perHost
		}
		perHost[rec.Host] += rec.Count
	}

	rows := make([]domain.PivotRow, 0, len(byEvent))
	for eventID, counts := range byEvent {
		row := domain.PivotRow{
			EventID: eventID,
			PerHost: make(map[domain.HostIdentifier]int, len(hosts)),
		}
		for _, h := range hosts {
			count := counts[h]
			row.PerHost[h] = count
			row.Total += count
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].EventID < rows[j].EventID
	})

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}

	return domain.PivotTable{Hosts: hosts, Rows: rows}
}
