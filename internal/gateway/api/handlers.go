package api

import (
	"encoding/json"
	"net/http"

	"github.com/dmi3ev1987/foodgram/internal/gateway/proxy"
)

type VersionHandler struct {
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

func (h *VersionHandler) Pattern() string {
	return "/version"
}

func (h *VersionHandler) Method() string {
	return http.MethodGet
}

func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("v0.1.0"))
}

type HealthHandler struct {
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Pattern() string {
	return "/healthz"
}

func (h *HealthHandler) Method() string {
	return http.MethodGet
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// RoutesHandler dumps the active rule table, most specific prefix first.
type RoutesHandler struct {
	rules *proxy.RuleSet
}

func NewRoutesHandler(rules *proxy.RuleSet) *RoutesHandler {
	return &RoutesHandler{rules: rules}
}

func (h *RoutesHandler) Pattern() string {
	return "/routes"
}

func (h *RoutesHandler) Method() string {
	return http.MethodGet
}

func (h *RoutesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.rules.Rules()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
