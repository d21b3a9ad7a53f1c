package api

import "net/http"

// router dispatches a service's requests to the per-procedure handlers.
type router map[string]http.Handler

func (r router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, ok := r[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}
	handler.ServeHTTP(w, req)
}
