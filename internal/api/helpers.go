package api

import (
	"encoding/json"
	"net/http"

	"github.com/Sagar1205/QuickTask/internal/service"
)

// Actor identity headers, populated by the auth gateway in front of this
// service. Authentication itself is out of scope here.
const (
	headerUserID    = "X-User-ID"
	headerUserEmail = "X-User-Email"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func actorFrom(r *http.Request) (service.Actor, bool) {
	id := r.Header.Get(headerUserID)
	if id == "" {
		return service.Actor{}, false
	}
	return service.Actor{ID: id, Email: r.Header.Get(headerUserEmail)}, true
}

// requireActor writes a 401 when the gateway identity headers are absent.
func requireActor(w http.ResponseWriter, r *http.Request) (service.Actor, bool) {
	actor, ok := actorFrom(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "missing user identity")
	}
	return actor, ok
}
