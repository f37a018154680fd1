package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/promptproxy/internal/types"
	"github.com/mandalnilabja/promptproxy/internal/version"
)

// HealthStatus is the /healthz body.
type HealthStatus struct {
	Status        string `json:"status"`
	App           string `json:"app"`
	Version       string `json:"version"`
	Mode          string `json:"mode"`
	Provider      string `json:"provider"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, HealthStatus{
		Status:        "ok",
		App:           "promptproxy",
		Version:       version.Version,
		Mode:          h.Mode,
		Provider:      h.Provider,
		UptimeSeconds: int64(time.Since(h.StartTime).Seconds()),
	})
}
