// Package testutil holds test helpers shared by several packages: a slog
// handler that captures records for assertions and writers for per-ticker
// xlsx fixtures.
package testutil
