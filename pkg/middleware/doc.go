// Package middleware provides Prometheus metrics and OpenTelemetry tracing
// for the HTTP surface, the render orchestrator and live sessions.
//
// Metrics is three things at once: net/http middleware, an ssr.Observer and
// a live.Metrics sink. Wire the same value into all three:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("isoshell"))
//	r.Use(m.Handler, middleware.Tracing())
//	orch, _ := ssr.New(ssr.Config{Observer: ssr.Observers{m, middleware.SpanEvents{}}, ...})
//	lv := live.NewServer(live.Config{Metrics: m})
package middleware
