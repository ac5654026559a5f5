package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtop/evtop/internal/domain"
)

func TestTableWriter_Write(t *testing.T) {
	t.Run("renders headers, counts, and totals", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewTableWriter(&buf, false)

		require.NoError(t, w.Write(sampleTable()))

		out := buf.String()
		assert.Contains(t, out, "EVENTID")
		assert.Contains(t, out, "ALPHA")
		assert.Contains(t, out, "BETA")
		assert.Contains(t, out, "TOTAL")
		assert.Contains(t, out, "100")
		assert.Contains(t, out, "5")
	})

	t.Run("renders an empty table without error", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewTableWriter(&buf, false)

		empty := domain.PivotTable{Hosts: []domain.HostIdentifier{"alpha"}}
		assert.NoError(t, w.Write(empty))
	})
}

func TestTableWriter_WriteSummaryLine(t *testing.T) {
	t.Run("plain when unstyled", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewTableWriter(&buf, false)

		w.WriteSummaryLine(sampleTable(), domain.EntryTypeError)

		assert.Equal(t, "2 distinct Error event(s) across 2 host(s)\n", buf.String())
	})
}

func TestHeaders(t *testing.T) {
	headers := Headers([]domain.HostIdentifier{"a", "b"})
	assert.Equal(t, []string{"EventId", "a", "b", "Total"}, headers)

	assert.Equal(t, []string{"EventId", "Total"}, Headers(nil))
}
