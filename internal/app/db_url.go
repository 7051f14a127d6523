package app

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/squad-roster/internal/config"
)

// normalizeDBURL applies driver-specific connection defaults.
func normalizeDBURL(driver, raw string, disablePreparedBinaryResult bool) string {
	if driver == config.DriverSQLite {
		return normalizeSQLiteDSN(raw)
	}
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// normalizeSQLiteDSN turns foreign key enforcement on unless the DSN sets it.
func normalizeSQLiteDSN(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "_foreign_keys=") || strings.Contains(raw, "_fk=") {
		return raw
	}
	if strings.Contains(raw, "?") {
		return raw + "&_foreign_keys=on"
	}
	return raw + "?_foreign_keys=on"
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "file:") {
		path := strings.TrimPrefix(trimmed, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		return filepath.Base(path)
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
