package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/pkg/apperror"
)

// Meta carries data provenance for read endpoints so screens can render
// a staleness indicator: "cache" data shows when it was stored, "empty"
// renders as no data rather than an error banner.
type Meta struct {
	Source   string     `json:"source"`
	StoredAt *time.Time `json:"stored_at,omitempty"`
}

// Envelope is the common JSON response shape
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope)
}

func writeSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, Envelope{Status: true, Message: message, Data: data})
}

func writeSuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta Meta) {
	writeJSON(w, statusCode, Envelope{Status: true, Message: message, Data: data, Meta: &meta})
}

// resultMeta builds response meta from a fetch result. StoredAt is only
// meaningful for cache-sourced data.
func resultMeta(source cache.Source, storedAt time.Time) Meta {
	meta := Meta{Source: string(source)}
	if source == cache.SourceCache {
		meta.StoredAt = &storedAt
	}
	return meta
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, Envelope{Status: false, Message: message, Code: code})
}

// writeMappedError resolves err through the application error mapping
func writeMappedError(w http.ResponseWriter, err error) {
	appErr := apperror.MapError(err)
	writeError(w, appErr.Status, appErr.Code, appErr.Message)
}
