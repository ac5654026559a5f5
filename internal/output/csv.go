package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/evtop/evtop/internal/domain"
)

// WriteCSV renders a pivot table as CSV with the schema
// EventId,<host1>,...,Total and one data row per pivot row.
func WriteCSV(w io.Writer, table domain.PivotTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Headers(table.Hosts)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		cells := make([]string, 0, len(table.Hosts)+2)
		cells = append(cells, strconv.Itoa(row.EventID))
		for _, host := range table.Hosts {
			cells = append(cells, strconv.Itoa(row.Count(host)))
		}
		cells = append(cells, strconv.Itoa(row.Total))
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a previously exported CSV back into a pivot table.
// The trailing Total column is recomputed from the per-host cells so
// the total invariant holds even for hand-edited files; a stated total
// that disagrees is an error.
func ReadCSV(r io.Reader) (domain.PivotTable, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return domain.PivotTable{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) < 2 || header[0] != "EventId" || header[len(header)-1] != "Total" {
		return domain.PivotTable{}, fmt.Errorf("unexpected csv header %v (want EventId,<hosts...>,Total)", header)
	}

	hosts := make([]domain.HostIdentifier, 0, len(header)-2)
	for _, name := range header[1 : len(header)-1] {
		hosts = append(hosts, domain.HostIdentifier(name))
	}

	var rows []domain.PivotRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.PivotTable{}, fmt.Errorf("read csv row: %w", err)
		}

		eventID, err := strconv.Atoi(record[0])
		if err != nil {
			return domain.PivotTable{}, fmt.Errorf("parse event id %q: %w", record[0], err)
		}

		row := domain.PivotRow{
			EventID: eventID,
			PerHost: make(map[domain.HostIdentifier]int, len(hosts)),
		}
		for i, host := range hosts {
			count, err := strconv.Atoi(record[i+1])
			if err != nil {
				return domain.PivotTable{}, fmt.Errorf("parse count for %s in row %d: %w", host, eventID, err)
			}
			if count < 0 {
				return domain.PivotTable{}, fmt.Errorf("negative count for %s in row %d", host, eventID)
			}
			row.PerHost[host] = count
			row.Total += count
		}

		stated, err := strconv.Atoi(record[len(record)-1])
		if err != nil {
			return domain.PivotTable{}, fmt.Errorf("parse total in row %d: %w", eventID, err)
		}
		if stated != row.Total {
			return domain.PivotTable{}, fmt.Errorf("row %d total %d does not match per-host sum %d", eventID, stated, row.Total)
		}

		rows = append(rows, row)
	}

	return domain.PivotTable{Hosts: hosts, Rows: rows}, nil
}
