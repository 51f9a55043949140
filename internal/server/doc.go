// Package server exposes the analysis engine, the stored history and the
// monitor over a small JSON HTTP API built on gin.
//
// Every request is scoped to an owner taken from the X-Owner-ID header or
// the owner query parameter, falling back to the configured default owner.
package server
