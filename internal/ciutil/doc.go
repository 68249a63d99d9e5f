// Package ciutil detects CI environments and resolves the database URL that
// integration tests run against. In CI the URL is normalized to the
// postgres:postgres service container credentials.
package ciutil
