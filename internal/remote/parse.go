package remote

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/evtop/evtop/internal/domain"
)

// ParseCounts parses the JSON count output of the remote command into
// CountRecords tagged with the originating host. ConvertTo-Json emits a
// bare object for a single group and an array otherwise; both forms are
// accepted. Empty output means no events matched and yields no records.
func ParseCounts(host domain.HostIdentifier, out []byte) ([]domain.CountRecord, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("malformed count output: %.80s", trimmed)
	}

	parsed := gjson.ParseBytes(trimmed)
	groups := []gjson.Result{parsed}
	if parsed.IsArray() {
		groups = parsed.Array()
	}

	records := make([]domain.CountRecord, 0, len(groups))
	for _, g := range groups {
		id := g.Get("Id")
		count := g.Get("Count")
		if !id.Exists() || !count.Exists() {
			return nil, fmt.Errorf("count output missing Id/Count: %.80s", g.Raw)
		}
		if count.Int() < 0 {
			return nil, fmt.Errorf("negative count for event %d", id.Int())
		}
		records = append(records, domain.CountRecord{
			Host:    host,
			EventID: int(id.Int()),
			Count:   int(count.Int()),
		})
	}
	return records, nil
}
