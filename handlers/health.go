package handlers

import (
	"net/http"

	"github.com/akinalp/mqvi-modbot/pkg"
)

// HealthHandler, liveness endpoint for the reverse proxy.
type HealthHandler struct {
	driver string
}

// NewHealthHandler, driver is reported back ("sqlite" / "mongo").
func NewHealthHandler(driver string) *HealthHandler {
	return &HealthHandler{driver: driver}
}

// Check, GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"store":  h.driver,
	})
}
