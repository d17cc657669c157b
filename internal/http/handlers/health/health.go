package health

import (
	"net/http"

	"github.com/vitalos/website/internal/http/response"
	"github.com/vitalos/website/pkg/config"
)

// Status is the configuration health report. Missing is never null.
type Status struct {
	OK      bool              `json:"ok"`
	Missing []string          `json:"missing"`
	EnvSeen map[string]string `json:"envSeen"`
}

type Handler struct {
	Config *config.Config
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{Config: cfg}
}

// ServeHTTP reports which required settings are absent. Secret values are never echoed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	missing := h.Config.Missing()
	if missing == nil {
		missing = []string{}
	}

	status := Status{
		OK:      len(missing) == 0,
		Missing: missing,
		EnvSeen: h.Config.EnvSeen(),
	}
	if !status.OK {
		response.WriteJSON(w, http.StatusInternalServerError, status)
		return
	}
	response.WriteJSON(w, http.StatusOK, status)
}
