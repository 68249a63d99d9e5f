// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Every helper skips the calling test when no database URL is
// configured, so `go test ./...` stays green on a laptop without Postgres.
package testdb
