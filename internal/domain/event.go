package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category is the log source partition queried independently per host.
type Category string

const (
	CategorySystem      Category = "System"
	CategoryApplication Category = "Application"
)

// Categories lists every category queried for each host, in submission order.
var Categories = []Category{CategorySystem, CategoryApplication}

// EntryType filters which event severities are counted.
type EntryType string

const (
	EntryTypeError       EntryType = "Error"
	EntryTypeWarning     EntryType = "Warning"
	EntryTypeInformation EntryType = "Information"
)

// Level returns the Windows event-log numeric level for the entry type.
func (t EntryType) Level() int {
	switch t {
	case EntryTypeError:
		return 2
	case EntryTypeWarning:
		return 3
	case EntryTypeInformation:
		return 4
	default:
		return 0
	}
}

// ParseEntryType converts a string to an EntryType, case-insensitively.
// An unrecognized value is a fatal input error and must be reported
// before any network activity.
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(s) {
	case "error":
		return EntryTypeError, nil
	case "warning":
		return EntryTypeWarning, nil
	case "information":
		return EntryTypeInformation, nil
	default:
		return "", fmt.Errorf("unknown entry type %q (expected error, warning, or information)", s)
	}
}

// LogQuery describes one unit of remote work: count events of one
// category matching one entry type within [After, Before) on one host.
type LogQuery struct {
	Host      ResolvedHost
	Category  Category
	EntryType EntryType
	After     time.Time
	Before    time.Time
}

// CountRecord is one observed (host, eventId, count) tuple. Records for
// the same numeric event identifier from different categories are merged
// during aggregation.
type CountRecord struct {
	Host    HostIdentifier `json:"host"`
	EventID int            `json:"eventId"`
	Count   int            `json:"count"`
}
