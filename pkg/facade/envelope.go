// Package facade defines the crawl service's JSON contract and a typed
// client for it. Every endpoint shares one response envelope: a boolean
// discriminant plus either a result payload or an error string. Consumers
// must branch on Success before touching either field; the client enforces
// that.
package facade

import "encoding/json"

// CrawlRequest is the body for POST /crawl and POST /crawl/forms.
type CrawlRequest struct {
	URL string `json:"url"`
}

// LoginRequest is the body for POST /crawl/login.
type LoginRequest struct {
	URL              string `json:"url"`
	UsernameSelector string `json:"username_selector"`
	PasswordSelector string `json:"password_selector"`
	SubmitSelector   string `json:"submit_selector"`
	Username         string `json:"username"`
	Password         string `json:"password"`
}

// Envelope is the shared response shape. Success discriminates: when true,
// Data holds the result payload; when false, Error holds the reason.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Success: true, Data: raw}, nil
}

// Fail wraps an error message in a failure envelope.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}
