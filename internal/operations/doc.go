// Package operations runs one comparison as a fixed sequence of steps.
//
// A run loads the requested tickers, joins the valid series on date,
// windows (and optionally normalizes) the joined table and derives returns.
// Every step records its own StepState; the first failing step ends the run.
//
// Pipeline.Run never returns a Go error. Its Result is tagged with a
// RunStatus:
//
//	success        every step completed
//	no_valid_data  no requested ticker produced a usable series
//	join_failure   the valid series could not be aligned on date
//	cancelled      the caller's context ended first
//
// Failed runs carry an *OperationError and a message suitable for showing
// to the user.
package operations
