package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /lists", app.listsByOwnerHandler)
	mux.HandleFunc("POST /lists", app.createListHandler)
	mux.HandleFunc("GET /lists/{id}", app.getListHandler)
	mux.HandleFunc("PUT /lists/{id}", app.updateListHandler)
	mux.HandleFunc("DELETE /lists/{id}", app.deleteListHandler)
	mux.HandleFunc("GET /healthz", app.healthHandler)
	mux.HandleFunc("GET /debug/metrics", app.metricsHandler)
	mux.Handle("GET /debug/vars", expvar.Handler())
	mux.HandleFunc("GET /openapi.yaml", app.openapiHandler)
	mux.HandleFunc("GET /docs", app.docsHandler)
	return WithRequestID(WithLogging(mux))
}
