// Package ssr is the server-side render orchestrator.
//
// For every request the Orchestrator walks a fixed state machine and
// produces exactly one Result before anything is written:
//
//	RECEIVED ─► STATIC_CHECK ─┬─► STATIC_RESPONDED           static file
//	                          └─► ROUTED ─┬─► REDIRECTED      302
//	                                      ├─► ROUTE_ERROR     500, client-only page
//	                                      ├─► NOT_FOUND       404
//	                                      └─► DATA_LOADING ─┬─► LOAD_FAILED     500, client-only page
//	                                                        └─► RENDERING ─┬─► RESPONDED
//	                                                                       └─► RENDER_FAILED
//
// A guard whose load outlives Config.LoadTimeout ends in LOAD_FAILED straight
// from ROUTED.
//
// With server rendering disabled, STATIC_CHECK goes straight to RESPONDED
// with a client-only page.
//
// Each request gets its own store, seeded from a copy of the bootstrap
// state. Rendering never starts before every loader of the shell and the
// matched route has settled.
//
// Handle is independent of net/http and is what tests drive; ServeHTTP
// adapts it to an http.Handler.
package ssr
