// Package api exposes the crawl service over HTTP. All endpoints respond
// with the facade envelope: a success discriminant plus either a data
// payload or an error string.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/entrhq/webcheck/pkg/crawler"
	"github.com/entrhq/webcheck/pkg/facade"
)

// LoginFunc runs one browser-backed login verification. The production
// implementation constructs a fresh session manager per call so concurrent
// requests never share a session.
type LoginFunc func(ctx context.Context, req facade.LoginRequest) (*crawler.LoginResult, error)

// Handler holds the dependencies for the HTTP endpoints.
type Handler struct {
	engine *crawler.Engine
	login  LoginFunc
	log    *logrus.Entry
}

// NewHandler creates an HTTP handler over the crawl engine and login runner.
func NewHandler(engine *crawler.Engine, login LoginFunc, logger *logrus.Logger) *Handler {
	return &Handler{
		engine: engine,
		login:  login,
		log:    logger.WithField("component", "api"),
	}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "online",
		"engines": []string{"goquery", "playwright"},
	})
}

// Crawl handles POST /crawl.
func (h *Handler) Crawl(w http.ResponseWriter, r *http.Request) {
	var req facade.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail("invalid request body"))
		return
	}
	if req.URL == "" {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail("url required"))
		return
	}

	data, err := h.engine.Crawl(r.Context(), req.URL)
	if err != nil {
		h.log.WithError(err).WithField("url", req.URL).Error("crawl failed")
		writeEnvelope(w, http.StatusInternalServerError, facade.Fail(err.Error()))
		return
	}
	h.writeOK(w, data)
}

// Forms handles POST /crawl/forms.
func (h *Handler) Forms(w http.ResponseWriter, r *http.Request) {
	var req facade.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail("invalid request body"))
		return
	}
	if req.URL == "" {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail("url required"))
		return
	}

	forms, err := h.engine.ExtractForms(r.Context(), req.URL)
	if err != nil {
		h.log.WithError(err).WithField("url", req.URL).Error("form extraction failed")
		writeEnvelope(w, http.StatusInternalServerError, facade.Fail(err.Error()))
		return
	}
	h.writeOK(w, map[string]interface{}{"url": req.URL, "forms": forms})
}

// SensitiveFields handles POST /extract/sensitive-fields.
func (h *Handler) SensitiveFields(w http.ResponseWriter, r *http.Request) {
	var req facade.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail("invalid request body"))
		return
	}
	if req.URL == "" {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail("url required"))
		return
	}

	fields, err := h.engine.ExtractSensitiveFields(r.Context(), req.URL)
	if err != nil {
		h.log.WithError(err).WithField("url", req.URL).Error("sensitive field scan failed")
		writeEnvelope(w, http.StatusInternalServerError, facade.Fail(err.Error()))
		return
	}
	h.writeOK(w, map[string]interface{}{
		"url":              req.URL,
		"sensitive_count":  len(fields),
		"sensitive_fields": fields,
	})
}

// Login handles POST /crawl/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req facade.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail("invalid request body"))
		return
	}
	if msg := validateLoginRequest(req); msg != "" {
		writeEnvelope(w, http.StatusBadRequest, facade.Fail(msg))
		return
	}

	result, err := h.login(r.Context(), req)
	if err != nil {
		h.log.WithError(err).WithField("url", req.URL).Error("login verification failed")
		writeEnvelope(w, http.StatusInternalServerError, facade.Fail(err.Error()))
		return
	}
	h.writeOK(w, result)
}

func validateLoginRequest(req facade.LoginRequest) string {
	switch {
	case req.URL == "":
		return "url required"
	case req.UsernameSelector == "":
		return "username_selector required"
	case req.PasswordSelector == "":
		return "password_selector required"
	case req.SubmitSelector == "":
		return "submit_selector required"
	default:
		return ""
	}
}

func (h *Handler) writeOK(w http.ResponseWriter, payload interface{}) {
	env, err := facade.OK(payload)
	if err != nil {
		h.log.WithError(err).Error("failed to encode payload")
		writeEnvelope(w, http.StatusInternalServerError, facade.Fail("internal encoding error"))
		return
	}
	writeEnvelope(w, http.StatusOK, env)
}

func writeEnvelope(w http.ResponseWriter, status int, env facade.Envelope) {
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
