// Package problem writes RFC 7807 problem documents.
package problem

import (
	"encoding/json"
	"net/http"
)

type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Message is safe to show an end user as is.
	Message string `json:"message,omitempty"`
}

func Write(w http.ResponseWriter, status int, title, detail string) {
	Send(w, Problem{Title: title, Status: status, Detail: detail})
}

// Send writes p, defaulting Type to about:blank.
func Send(w http.ResponseWriter, p Problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
