package api

import (
	"fmt"
	"net/http"

	"github.com/internhub/internhub/internal/config"
)

type SystemHandler struct {
	flags config.Flags
}

func NewSystemHandler(flags config.Flags) *SystemHandler {
	return &SystemHandler{flags: flags}
}

type healthResponse struct {
	Status          string `json:"status"`
	Preflight       bool   `json:"preflight"`
	DBInitCheck     bool   `json:"db_init_check"`
	Bootstrap       bool   `json:"bootstrap"`
	LazyLoading     bool   `json:"lazy_loading"`
	StatelessStrict bool   `json:"stateless_strict"`
}

// HealthHandler reports liveness plus the deployment's feature-flag
// configuration.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:          "ok",
		Preflight:       h.flags.EnablePreflight,
		DBInitCheck:     h.flags.EnableDBInitCheck,
		Bootstrap:       h.flags.EnableBootstrap,
		LazyLoading:     h.flags.LazyLoading,
		StatelessStrict: h.flags.StatelessStrict,
	}, http.StatusOK)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","buildTime":"%s"}`, version, buildTime)
	}
}
