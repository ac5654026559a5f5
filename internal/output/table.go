package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/evtop/evtop/internal/domain"
)

// TableWriter renders a pivot table to a console writer.
type TableWriter struct {
	w      io.Writer
	styled bool
}

// NewTableWriter creates a table writer. styled enables ANSI styling of
// the surrounding text; the caller decides based on TTY detection.
func NewTableWriter(w io.Writer, styled bool) *TableWriter {
	return &TableWriter{w: w, styled: styled}
}

// Write renders the table: one row per event identifier, one column per
// host, and a trailing total column.
func (t *TableWriter) Write(table domain.PivotTable) error {
	tw := tablewriter.NewTable(t.w)
	tw.Header(Headers(table.Hosts))

	for _, row := range table.Rows {
		cells := make([]string, 0, len(table.Hosts)+2)
		cells = append(cells, strconv.Itoa(row.EventID))
		for _, host := range table.Hosts {
			cells = append(cells, strconv.Itoa(row.Count(host)))
		}
		cells = append(cells, strconv.Itoa(row.Total))
		if err := tw.Append(cells); err != nil {
			return fmt.Errorf("append table row: %w", err)
		}
	}

	if err := tw.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// WriteSummaryLine renders the closing line after the table.
func (t *TableWriter) WriteSummaryLine(table domain.PivotTable, entryType domain.EntryType) {
	label := string(entryType)
	if t.styled {
		label = EntryTypeStyle(label).Render(label)
	}
	fmt.Fprintf(t.w, "%d distinct %s event(s) across %d host(s)\n", len(table.Rows), label, len(table.Hosts))
}

// Headers returns the column header row: EventId, one column per host,
// then Total. Shared with the CSV writer so both surfaces agree.
func Headers(hosts []domain.HostIdentifier) []string {
	headers := make([]string, 0, len(hosts)+2)
	headers = append(headers, "EventId")
	for _, h := range hosts {
		headers = append(headers, h.String())
	}
	headers = append(headers, "Total")
	return headers
}
