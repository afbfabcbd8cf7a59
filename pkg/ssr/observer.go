package ssr

import (
	"context"
	"time"
)

// Observer is notified as a run moves through the state machine.
// Implementations must be safe for concurrent use.
type Observer interface {
	// Transition is called for every state change, in order.
	Transition(ctx context.Context, req Request, from, to Phase)

	// Finished is called once per run with its terminal phase.
	Finished(ctx context.Context, req Request, final Phase, res Result, elapsed time.Duration)
}

// Observers fans out to several observers.
type Observers []Observer

// Transition implements Observer.
func (obs Observers) Transition(ctx context.Context, req Request, from, to Phase) {
	for _, o := range obs {
		o.Transition(ctx, req, from, to)
	}
}

// Finished implements Observer.
func (obs Observers) Finished(ctx context.Context, req Request, final Phase, res Result, elapsed time.Duration) {
	for _, o := range obs {
		o.Finished(ctx, req, final, res, elapsed)
	}
}

type nopObserver struct{}

func (nopObserver) Transition(context.Context, Request, Phase, Phase)                {}
func (nopObserver) Finished(context.Context, Request, Phase, Result, time.Duration) {}
