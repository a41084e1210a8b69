// Package app wires configuration, logging, telemetry, services and HTTP
// handlers into a runnable dashboard server.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config.yaml and PREDICTRAM_* variables
//	2. Initialize logging and OpenTelemetry
//	3. Build the series loader and the comparison pipeline
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers, middleware and the WebSocket endpoint
//	6. Configure and start the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM. Stop then closes WebSocket sessions,
// drains in-flight requests within the shutdown timeout and flushes
// telemetry. Errors are returned to the caller; the package never calls
// os.Exit.
package app
