package cli

import (
	"fmt"
	"os"

	"github.com/evtop/evtop/internal/aggregate"
	"github.com/evtop/evtop/internal/domain"
	"github.com/evtop/evtop/internal/output"
)

// RankCmd re-ranks a previously exported CSV
type RankCmd struct {
	Path string `arg:"" help:"CSV file exported by 'evtop collect --csv'"`
	Top  int    `default:"${config_top}" help:"Keep only the N highest-ranked rows (0 = all)"`
}

// Run executes the rank command
func (c *RankCmd) Run(globals *Globals) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return fatal(globals, "CSV_OPEN", StatusGeneric, "%s", err)
	}
	defer f.Close()

	table, err := output.ReadCSV(f)
	if err != nil {
		return fatal(globals, "CSV_PARSE", StatusGeneric, "%s", err)
	}

	// Flatten back to records and rebuild so sorting and truncation go
	// through the one aggregation path.
	var records []domain.CountRecord
	for _, row := range table.Rows {
		for _, host := range table.Hosts {
			if count := row.Count(host); count > 0 {
				records = append(records, domain.CountRecord{Host: host, EventID: row.EventID, Count: count})
			}
		}
	}
	ranked := aggregate.Build(records, table.Hosts, c.Top)

	writer := output.NewTableWriter(globals.Stdout, stdoutIsTerminal(globals))
	if err := writer.Write(ranked); err != nil {
		return fatal(globals, "RENDER", StatusGeneric, "%s", err)
	}
	if !globals.Quiet {
		fmt.Fprintf(globals.Stdout, "%d row(s) from %s\n", len(ranked.Rows), c.Path)
	}
	return nil
}
