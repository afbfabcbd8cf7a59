// Package live hosts the long-lived client session over a WebSocket.
//
// A browser that hydrated a server-rendered page opens one connection and
// keeps it for the life of the page. The connection owns a store seeded from
// the page's hydration state and runs the session navigation effect on it:
//
//	client → server  {"type":"hydrate","state":{...}}     once, first
//	client → server  {"type":"dispatch","action":{...}}   any number
//	server → client  {"type":"ready","session":"<id>"}
//	server → client  {"type":"navigate","location":"/loginSuccess"}
//	server → client  {"type":"error","error":"..."}
//
// Every dispatched action goes through the store, and every resulting
// auth transition is checked, so a login followed at once by a logout sends
// both navigations.
package live
