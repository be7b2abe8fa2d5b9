// Package httputil holds small HTTP response helpers shared by the demo
// server's handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "enrichcore/pkg/domainerrors"
)

// WriteError writes err as a JSON error body, choosing the status code from
// the error's domain code. Internal errors never leak their message to the
// client; every other code includes it as error_description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	status := dErrors.HTTPStatus(err)

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		body["error_description"] = messageOf(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSON writes v as a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func messageOf(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
