package httpjson

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the wire shape of every rejection. Code is a machine-readable
// reason (e.g. SESSION_FULL) so callers can render a specific message
// without parsing the human text.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Read(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func Error(w http.ResponseWriter, status int, code, msg string) {
	Write(w, status, ErrorBody{Code: code, Message: msg})
}
