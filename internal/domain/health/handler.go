package health

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, c *Checker) {
	r.Get("/health", getHealth(c))
}

// getHealth godoc
// @Summary Estado de los servicios
// @Description Base de datos, broker de tareas y workers. Siempre 200; el estado va en el body.
// @Tags health
// @Produce json
// @Success 200 {object} Report
// @Router /health [get]
func getHealth(c *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.Check(r.Context()))
	}
}

// Duplicado por módulo, igual que en pets y vaccinations.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
