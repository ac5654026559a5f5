package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// readHostsFile reads a host list file: one name per line, blank lines
// and '#' comments ignored.
func readHostsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hosts file: %w", err)
	}
	defer f.Close()

	var hosts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read hosts file: %w", err)
	}
	return hosts, nil
}

// gatherCandidates merges the repeatable --host flag with the hosts
// file (flag value first, falling back to the configured default path).
func gatherCandidates(flagHosts []string, flagFile, configFile string) ([]string, error) {
	candidates := append([]string(nil), flagHosts...)

	path := flagFile
	if path == "" {
		path = configFile
	}
	if path != "" {
		fromFile, err := readHostsFile(path)
		if err != nil {
			// The configured default may simply not exist; only the
			// explicit flag is a hard error.
			if flagFile == "" && errors.Is(err, os.ErrNotExist) {
				return candidates, nil
			}
			return nil, err
		}
		candidates = append(candidates, fromFile...)
	}
	return candidates, nil
}

// parseTimeOrDuration parses a time string as either RFC3339 or a
// duration offset back from now.
// Examples: "2026-01-15T10:30:00Z" (absolute), "24h" (24 hours ago)
func parseTimeOrDuration(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("must be RFC3339 (e.g., 2026-01-15T10:30:00Z) or duration (e.g., 30m, 24h)")
}

// resolveWindow computes the collection window [after, before) from the
// flags, with the configured window span as the default.
func resolveWindow(afterFlag, beforeFlag, configWindow string, now time.Time) (after, before time.Time, err error) {
	before = now
	if beforeFlag != "" {
		before, err = parseTimeOrDuration(beforeFlag, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --before: %w", err)
		}
	}

	if afterFlag != "" {
		after, err = parseTimeOrDuration(afterFlag, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --after: %w", err)
		}
	} else {
		span, err := time.ParseDuration(configWindow)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid configured window %q: %w", configWindow, err)
		}
		after = now.Add(-span)
	}

	if !after.Before(before) {
		return time.Time{}, time.Time{}, fmt.Errorf("window start %s is not before window end %s", after.Format(time.RFC3339), before.Format(time.RFC3339))
	}
	return after, before, nil
}
