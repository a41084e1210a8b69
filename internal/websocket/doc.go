// Package websocket runs the reactive dashboard session.
//
// Every connection is a Session. The browser sends an input snapshot
// whenever a widget changes; the session cancels the run still in flight,
// starts a fresh one and sends back its result. A result is only delivered
// while its snapshot is the latest one, so a slow run can never overwrite
// the output of a newer selection.
//
// Message flow:
//
//	client                      server
//	input:snapshot   ------>
//	                 <------    run:started
//	input:snapshot   ------>    (previous run cancelled)
//	                 <------    run:started
//	                 <------    run:result   (latest snapshot only)
package websocket
