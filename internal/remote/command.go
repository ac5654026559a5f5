package remote

import (
	"fmt"

	"github.com/evtop/evtop/internal/domain"
)

// timeLayout is what PowerShell's [datetime] cast accepts unambiguously.
const timeLayout = "2006-01-02T15:04:05"

// BuildCountCommand builds the remote command for one log query: select
// events of the category matching the entry-type level within
// [After, Before), group by event identifier, and emit the group sizes
// as a compact JSON array of {Id, Count} objects.
//
// -ErrorAction SilentlyContinue keeps Get-WinEvent quiet when no events
// match the filter; the empty output parses as zero records.
func BuildCountCommand(q domain.LogQuery) string {
	script := fmt.Sprintf(
		`Get-WinEvent -FilterHashtable @{LogName='%s';Level=%d;StartTime=[datetime]'%s';EndTime=[datetime]'%s'} -ErrorAction SilentlyContinue | `+
			`Group-Object Id | `+
			`Select-Object @{n='Id';e={[int]$_.Name}},Count | `+
			`ConvertTo-Json -Compress`,
		q.Category,
		q.EntryType.Level(),
		q.After.UTC().Format(timeLayout),
		q.Before.UTC().Format(timeLayout),
	)
	return fmt.Sprintf(`powershell -NoProfile -NonInteractive -Command "%s"`, script)
}
