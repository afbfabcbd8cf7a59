// Package loader runs the data dependencies of a render.
//
// A Loader pairs a predicate (is the data already in the store?) with an
// asynchronous load that dispatches into the store. Run invokes every loader
// whose data is missing, concurrently, and returns only after all of them
// have settled:
//
//	report, err := loader.Run(ctx, st, shellLoaders, routeLoaders...)
//	if err != nil {
//	    // err is an E200 DataLoadFailure naming each failed loader, or an
//	    // E201 when ctx expired before the barrier settled.
//	}
//
// Loaders are de-duplicated by name, so a shell and a leaf view may declare
// the same dependency and it is fetched once.
package loader
