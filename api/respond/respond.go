// Package respond writes the JSON bodies shared by every API handler.
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON encodes v with the given status code. Marshaling happens before the
// header is written so an encoding failure can still become a 500.
func JSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(b, '\n'))
}

// Error writes a JSON error body: {"error": msg}.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, map[string]string{"error": msg})
}
