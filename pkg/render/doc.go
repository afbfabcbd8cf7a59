// Package render writes the HTML document that wraps every server response.
//
// The document carries three things besides the rendered markup: the
// stylesheets and scripts named by the asset manifest, and the serialized
// store state as window.__data, which the client reads to hydrate without
// refetching what the server already loaded.
//
// A Document with a nil Body renders an empty mount point. That is the
// client-hydration-only page used when server rendering is disabled or has
// failed: the client boots from the state alone and renders itself.
package render
