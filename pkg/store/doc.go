// Package store provides the application state store shared by the server
// render path and the long-lived client session.
//
// A Store holds one State tree. State changes only through Dispatch, which
// runs the reducer and then notifies every subscriber with the previous and
// the next state. Notifications are delivered for every update, in dispatch
// order, even when actions are dispatched concurrently or from inside a
// listener.
//
//	st := store.New(store.State{})
//	stop := st.Subscribe(func(prev, next store.State) {
//	    log.Println(prev.Auth.User, "->", next.Auth.User)
//	})
//	defer stop()
//
//	st.Dispatch(store.LoginSuccess(&store.User{Name: "alice"}))
//
// On the server exactly one Store exists per in-flight request. Seed a new
// Store from a process-wide bootstrap State with State.Clone so no request
// ever shares mutable state with another.
package store
