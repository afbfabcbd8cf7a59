// Package errors provides the coded, categorized errors used by the render
// pipeline.
//
// Every failure the orchestrator can report to an operator carries a stable
// code:
//
//	E100  route match failed (malformed pattern, undecodable path)
//	E101  route guard failed
//	E200  data load failed
//	E201  data load timed out
//	E300  static asset probe failed (treated as a miss)
//	E400  render failed
//	E500  configuration invalid
//
// Only the code ever reaches the served markup. The message, detail and the
// wrapped cause go to the operator log.
//
// # Usage
//
//	err := errors.New(errors.CodeDataLoad).
//	    WithDetail("loader auth failed").
//	    Wrap(cause)
//
//	logger.Error("load failed", "code", err.Code, "error", err)
//
// The CLI prints errors with PrintError; `isoshell explain` lists the
// registry.
package errors
