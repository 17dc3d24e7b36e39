package api

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the crawl service routes with logging and CORS middleware.
func NewRouter(h *Handler, allowedOrigins []string, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(CORS(allowedOrigins))

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/crawl", h.Crawl).Methods("POST", "OPTIONS")
	r.HandleFunc("/crawl/login", h.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/crawl/forms", h.Forms).Methods("POST", "OPTIONS")
	r.HandleFunc("/extract/sensitive-fields", h.SensitiveFields).Methods("POST", "OPTIONS")

	return r
}
