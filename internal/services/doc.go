// Package services holds the business operations behind the HTTP, websocket
// and CLI surfaces: running comparisons, listing the ticker catalog and
// reporting health.
//
// Services validate their input and translate domain failures into
// internal/errors APIError values so every surface reports them the same
// way.
package services
