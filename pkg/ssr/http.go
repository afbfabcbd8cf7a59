package ssr

import (
	"net/http"
)

// ServeHTTP implements http.Handler.
func (o *Orchestrator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := o.Handle(r.Context(), NewRequest(r))
	o.Write(w, r, res)
}

// Write sends res. Nothing is written before this point, so the status is
// always the one the result carries.
func (o *Orchestrator) Write(w http.ResponseWriter, r *http.Request, res Result) {
	switch res := res.(type) {
	case StaticFile:
		if o.cfg.Static == nil {
			http.NotFound(w, r)
			return
		}
		o.cfg.Static.Serve(w, r, res.Asset)

	case Redirect:
		http.Redirect(w, r, res.Location, res.Status())

	case Error:
		writeBody(w, r, res.Status(), "text/html; charset=utf-8", res.Body)

	case NotFound:
		ct := "text/plain; charset=utf-8"
		if res.HTML {
			ct = "text/html; charset=utf-8"
		}
		writeBody(w, r, res.Status(), ct, res.Body)

	case Markup:
		writeBody(w, r, res.Status(), "text/html; charset=utf-8", res.HTML)

	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}
