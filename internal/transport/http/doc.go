// Package http implements the HTTP handlers of the comparison dashboard.
// Handlers are a thin layer between chi routing and the services package:
// they parse the request, call a service and render the outcome.
//
// # Error Handling
//
// Every error is written as an RFC 7807 problem document through
// errors.ErrorHandler. Failed comparison runs map as follows:
//
//	no_valid_data  422  /errors/data/no-valid-data
//	join_failure   422  /errors/data/join-failure
//	validation     400  /errors/validation
//
// # Routes
//
//	GET  /api/comparison               JSON result, query parameters
//	POST /api/comparison               JSON result, JSON body
//	GET  /api/comparison/chart.png     line chart
//	GET  /api/comparison/returns.csv   returns table
//	GET  /api/comparison/heatmap.xlsx  returns heatmap workbook
//	GET  /api/tickers                  ticker catalog
//	GET  /api/tenures                  tenure presets
//	GET  /api/health[/live|/ready]     health probes
//	GET  /                             server rendered dashboard
package http
