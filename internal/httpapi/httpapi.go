// Package httpapi implements the HTTP facade (spec.md §4.7, §6): GET /, POST /,
// and POST /terminate, wired to a Supervisor.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Amr-9/modelhost/internal/supervisor"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// Handler implements http.Handler for the model execution host's facade.
type Handler struct {
	sup *supervisor.Supervisor
	mux *http.ServeMux
}

// New builds a Handler backed by sup.
func New(sup *supervisor.Supervisor) *Handler {
	h := &Handler{sup: sup, mux: http.NewServeMux()}
	h.mux.HandleFunc("/", h.handleRoot)
	h.mux.HandleFunc("/terminate", h.handleTerminate)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "internal server error",
			})
		}
	}()
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sup.Snapshot()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if id := h.sup.CurrentJobID(); id != "" {
		w.Header().Set("X-Job-Id", id)
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read request body: " + err.Error()})
		return
	}

	var req jobapi.Request
	if err := json.Unmarshal(body, &req); err != nil {
		// spec.md §4.7: parse JSON, falling back to an empty object on parse
		// failure rather than rejecting the request outright — the empty
		// object then fails the modelId check below with its own distinct error.
		log.Printf("httpapi: treating malformed POST / body as an empty object, shape=%s", bindingShape(body))
		req = jobapi.Request{}
	}
	if req.ModelID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `required property "modelId" is missing`})
		return
	}

	job, _, err := h.sup.Submit(req)
	if err != nil {
		if errors.Is(err, supervisor.ErrJobRunning) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "cannot submit new job - job already running"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("X-Job-Id", job.ID())
	writeJSON(w, http.StatusCreated, job.Snapshot())
}

func (h *Handler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req jobapi.TerminateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
			return
		}
	}

	if err := h.sup.Terminate(req.Timeout); err != nil {
		if errors.Is(err, supervisor.ErrNoJob) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "no job to terminate"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snap, _ := h.sup.Snapshot()
	writeJSON(w, http.StatusOK, snap)
}

// bindingShape describes a request body's top-level keys and their JSON types
// (or, for a non-object body, just its JSON type) without
// re-parsing it into jobapi.Request, for diagnosing why a POST / body failed
// to bind (spec.md §3 domain stack: binding shape inspection). Used only for
// operator-facing logs, never echoed back to the client.
func bindingShape(body []byte) string {
	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return result.Type.String()
	}
	var keys []string
	result.ForEach(func(key, value gjson.Result) bool {
		keys = append(keys, key.String()+":"+value.Type.String())
		return true
	})
	return "{" + strings.Join(keys, ", ") + "}"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
