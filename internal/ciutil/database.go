package ciutil

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/phrazzld/scry-fsrs/internal/redact"
)

// Connection defaults of the CI Postgres service container.
const (
	StandardCIUser     = "postgres"
	StandardCIPassword = "postgres"
	StandardCIPort     = "5432"
	StandardCIDatabase = "scry_fsrs_test"
	StandardCIOptions  = "sslmode=disable"
)

// databaseURLVars is the lookup order for the test database URL.
var databaseURLVars = []string{EnvDatabaseURL, EnvScryTestDBURL, EnvScryDatabaseURL}

// GetTestDatabaseURL returns the first database URL found in DATABASE_URL,
// SCRY_TEST_DB_URL or SCRY_DATABASE_URL, or "" when none is set. In CI the
// URL is rewritten by StandardizeDatabaseURL. logger may be nil.
func GetTestDatabaseURL(logger *slog.Logger) string {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var dbURL string
	for _, name := range databaseURLVars {
		if val := os.Getenv(name); val != "" {
			if name != EnvScryTestDBURL {
				logger.Warn("using non-standardized database URL variable",
					"used_var", name,
					"preferred_var", EnvScryTestDBURL,
					"value", MaskDatabaseURL(val),
				)
			}
			dbURL = val
			break
		}
	}

	if dbURL == "" || !IsCI() {
		return dbURL
	}

	standardized, err := StandardizeDatabaseURL(dbURL)
	if err != nil {
		logger.Error("failed to standardize database URL",
			"error", err,
			"url", MaskDatabaseURL(dbURL),
		)
		return dbURL
	}

	if standardized != dbURL {
		logger.Info("standardized database URL for CI",
			"original", MaskDatabaseURL(dbURL),
			"standardized", MaskDatabaseURL(standardized),
		)
	}
	return standardized
}

// StandardizeDatabaseURL replaces the credentials of a Postgres URL with the
// CI defaults and fills in a missing port, database name and query options.
// Non-Postgres URLs are returned unchanged.
func StandardizeDatabaseURL(dbURL string) (string, error) {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		if parsed.Scheme == "" || parsed.Host == "" {
			return "", fmt.Errorf("database URL %q has no scheme or host", MaskDatabaseURL(dbURL))
		}
		return dbURL, nil
	}

	std := *parsed
	std.User = url.UserPassword(StandardCIUser, StandardCIPassword)

	if parsed.Port() == "" {
		host := parsed.Hostname()
		if host == "" {
			host = "localhost"
		}
		std.Host = host + ":" + StandardCIPort
	}

	if strings.TrimPrefix(parsed.Path, "/") == "" {
		std.Path = "/" + StandardCIDatabase
	}

	if parsed.RawQuery == "" {
		std.RawQuery = StandardCIOptions
	}

	return std.String(), nil
}

// MaskDatabaseURL hides the password of a URL so it can be logged.
func MaskDatabaseURL(value string) string {
	parsed, err := url.Parse(value)
	if err != nil || parsed.User == nil {
		return redact.String(value)
	}
	return parsed.Redacted()
}
