// Package shared groups code used across packages that belongs to no single
// layer. Its testutil subpackage provides log capture and spreadsheet
// fixtures for tests; it is never imported by production code.
package shared
