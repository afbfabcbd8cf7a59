package ssr

// Phase is a state of the orchestration state machine.
type Phase string

const (
	PhaseReceived    Phase = "RECEIVED"
	PhaseStaticCheck Phase = "STATIC_CHECK"
	PhaseRouted      Phase = "ROUTED"
	PhaseDataLoading Phase = "DATA_LOADING"
	PhaseRendering   Phase = "RENDERING"

	PhaseResponded       Phase = "RESPONDED"
	PhaseStaticResponded Phase = "STATIC_RESPONDED"
	PhaseRedirected      Phase = "REDIRECTED"
	PhaseRouteError      Phase = "ROUTE_ERROR"
	PhaseNotFound        Phase = "NOT_FOUND"
	PhaseLoadFailed      Phase = "LOAD_FAILED"
	PhaseRenderFailed    Phase = "RENDER_FAILED"
)

// Terminal reports whether p ends a run.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseResponded, PhaseStaticResponded, PhaseRedirected,
		PhaseRouteError, PhaseNotFound, PhaseLoadFailed, PhaseRenderFailed:
		return true
	}
	return false
}

// next lists the legal transitions.
var next = map[Phase][]Phase{
	PhaseReceived:    {PhaseStaticCheck},
	PhaseStaticCheck: {PhaseStaticResponded, PhaseRouted, PhaseResponded},
	PhaseRouted:      {PhaseRedirected, PhaseRouteError, PhaseNotFound, PhaseDataLoading, PhaseLoadFailed},
	PhaseDataLoading: {PhaseRendering, PhaseLoadFailed},
	PhaseRendering:   {PhaseResponded, PhaseRenderFailed},
}

// CanTransition reports whether from → to is a legal transition.
func CanTransition(from, to Phase) bool {
	for _, p := range next[from] {
		if p == to {
			return true
		}
	}
	return false
}
