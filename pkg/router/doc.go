// Package router holds the application's route table.
//
// A Table is an ordered list of routes. Matching walks the list and the first
// pattern that matches the path wins. Patterns are made of segments:
//
//	/about             static segment
//	/items/:id         parameter, any value
//	/items/:id:int     typed parameter (int, uint, uuid, string)
//	/docs/*rest        catch-all, must be last
//
// A typed parameter whose value does not validate makes the pattern not
// match, and matching continues with the next route.
//
// # Outcomes
//
// Match returns an Outcome that is exactly one of:
//
//	KindRedirect   a guard asked for another location
//	KindError      the path could not be decoded or a guard failed
//	KindMatched    a route matched; Route and Params are set
//	KindUnmatched  nothing matched
//
// Kind decides in that order, so a redirect takes precedence over everything
// else.
//
// # Guards
//
// A route may carry a Guard. Guards run only for the route that matched and
// may consult (and load into) the request's store, which lets a guard wait
// for the session before deciding:
//
//	router.Route{
//	    Pattern: "/chat",
//	    Guard: func(ctx context.Context, st *store.Store, m router.Match) (string, error) {
//	        if err := loader.Ensure(ctx, st, authLoader); err != nil {
//	            return "", err
//	        }
//	        if st.State().CurrentUser() == nil {
//	            return "/", nil
//	        }
//	        return "", nil
//	    },
//	}
package router
