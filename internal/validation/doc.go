// Package validation checks comparison requests and the files the dashboard
// reads and writes.
package validation
