package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docqa/internal/pipeline"
)

// statusFor maps an error kind to the HTTP status of a failed action.
func statusFor(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case pipeline.KindParseFailure:
		return http.StatusUnprocessableEntity
	case pipeline.KindTimeout:
		return http.StatusGatewayTimeout
	case pipeline.KindTransientOverload:
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// uploadStatus is the status for errors raised while reading the request.
func uploadStatus(err error) int {
	if errors.Is(err, errTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func jsonError(w http.ResponseWriter, msg string, kind pipeline.Kind, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "kind": string(kind)})
}

// writeFailure reports a failed pipeline action as JSON.
func writeFailure(w http.ResponseWriter, err error) {
	kind := pipeline.KindOf(err)
	jsonError(w, pipeline.UserMessage(err), kind, statusFor(kind))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
