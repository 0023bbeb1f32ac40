package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	httpopenapi "github.com/fairyhunter13/shopping-list-service/internal/http/openapi"
	"github.com/fairyhunter13/shopping-list-service/internal/lists"
	"github.com/fairyhunter13/shopping-list-service/internal/model"
	"github.com/fairyhunter13/shopping-list-service/internal/obs"
)

// App holds the dependencies of the HTTP handlers.
type App struct {
	Lists   *lists.Service
	closing atomic.Bool
	started time.Time
}

type deleteAck struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// NewApp returns an App serving svc.
func NewApp(svc *lists.Service) *App {
	return &App{Lists: svc, started: time.Now()}
}

// StartShutdown makes mutations fail with 503 from now on.
func (a *App) StartShutdown() { a.closing.Store(true) }

// decodeBody reads a JSON request body, rejecting unknown fields.
// It writes the error response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (a *App) rejectIfClosing(w http.ResponseWriter) bool {
	if a.closing.Load() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return true
	}
	return false
}

func (a *App) getListHandler(w http.ResponseWriter, r *http.Request) {
	l, err := a.Lists.GetList(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func queryInt(r *http.Request, key string) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (a *App) listsByOwnerHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "owner is required")
		return
	}
	page, ok := queryInt(r, "page")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "page must be a non-negative integer")
		return
	}
	pageSize, ok := queryInt(r, "pageSize")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "pageSize must be a non-negative integer")
		return
	}
	ls, err := a.Lists.ListsByOwner(r.Context(), owner, page, pageSize)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (a *App) createListHandler(w http.ResponseWriter, r *http.Request) {
	if a.rejectIfClosing(w) {
		return
	}
	var in model.ListInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Owner == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "owner is required")
		return
	}
	l, err := a.Lists.CreateList(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (a *App) updateListHandler(w http.ResponseWriter, r *http.Request) {
	if a.rejectIfClosing(w) {
		return
	}
	var in model.ListInput
	if !decodeBody(w, r, &in) {
		return
	}
	l, err := a.Lists.UpdateList(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (a *App) deleteListHandler(w http.ResponseWriter, r *http.Request) {
	if a.rejectIfClosing(w) {
		return
	}
	id := r.PathValue("id")
	if err := a.Lists.DeleteList(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteAck{ID: id, Deleted: true})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := map[string]any{"uptime_sec": time.Since(a.started).Seconds()}
	for k, v := range obs.Snapshot() {
		m[k] = v
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Shopping List API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
