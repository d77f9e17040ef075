package handler

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

type BaseHandler struct{}

func (b *BaseHandler) RespondWithError(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.String(),
	})
}

// RespondWithJSON writes the payload as-is; the statement and transaction
// responses have a fixed wire shape and are not wrapped in an envelope.
func (b *BaseHandler) RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(payload)
}
