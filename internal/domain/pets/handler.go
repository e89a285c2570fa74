package pets

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-vaccinations/internal/platform/dates"
	"pet-vaccinations/internal/platform/errs"
	"pet-vaccinations/internal/platform/pagination"
)

func RegisterRoutes(r chi.Router, svc *Service, overviews OverviewProvider) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, overviews))
		pr.Post("/", createPetHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc, overviews))
		pr.Patch("/{petID}", updatePetHandler(svc, overviews))
		pr.Put("/{petID}", updatePetHandler(svc, overviews))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

// petRequest es el envoltorio {"pet": {...}}. Sin "pet" => 400.
type petRequest struct {
	Pet *petAttributes `json:"pet"`
}

type petAttributes struct {
	Name  *string         `json:"name"`
	Breed *string         `json:"breed"`
	Age   json.RawMessage `json:"age" swaggertype:"integer"`
}

// input convierte los atributos. Un age no entero ("x", 2.5) queda como error de validación (422), no 400.
func (a petAttributes) input() Input {
	in := Input{Name: a.Name, Breed: a.Breed}
	in.Age, in.ageErr = parseAge(a.Age)
	return in
}

func parseAge(raw json.RawMessage) (*int, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, msgAgeNotANumber
	}
	f, err := n.Float64()
	if err != nil {
		return nil, msgAgeNotANumber
	}
	switch {
	case f != math.Trunc(f):
		return nil, msgAgeNotInteger
	case f < MinAge:
		return nil, msgAgeTooLow
	case f > MaxAge:
		return nil, msgAgeTooHigh
	}
	age := int(f)
	return &age, ""
}

type vaccinationSummaryResponse struct {
	Total        int `json:"total"`
	Expired      int `json:"expired"`
	Active       int `json:"active"`
	ExpiringSoon int `json:"expiring_soon"`
}

type upcomingExpirationResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ExpiryDate      string `json:"expiry_date" example:"2025-06-30"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

// petResponse representa una mascota con su estado de vacunación.
type petResponse struct {
	ID                     string                       `json:"id"`
	Name                   string                       `json:"name"`
	Breed                  string                       `json:"breed"`
	Age                    int                          `json:"age"`
	AgeCategory            AgeCategory                  `json:"age_category" enums:"young,adult,senior"`
	HasExpiredVaccinations bool                         `json:"has_expired_vaccinations"`
	VaccinationSummary     vaccinationSummaryResponse   `json:"vaccination_summary"`
	UpcomingExpirations    []upcomingExpirationResponse `json:"upcoming_expirations"`
	LastNotificationSentAt *time.Time                   `json:"last_notification_sent_at"`
	CreatedAt              time.Time                    `json:"created_at"`
	UpdatedAt              time.Time                    `json:"updated_at"`
}

type petEnvelope struct {
	Pet petResponse `json:"pet"`
}

type petListEnvelope struct {
	Pets []petResponse  `json:"pets"`
	Meta pagination.Meta `json:"meta"`
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Lista paginada de mascotas. Filtros combinables con AND. Un `sort` fuera de la whitelist vuelve al orden por defecto (`-created_at`).
// @Tags pets
// @Produce json
// @Param breed query string false "Raza exacta, sin distinguir mayúsculas"
// @Param age_category query string false "young | adult | senior"
// @Param has_expired_vaccinations query string false "true | false"
// @Param sort query string false "name, breed, age, created_at, updated_at; prefijo - para descendente"
// @Param page query int false "Página (default 1)"
// @Param per_page query int false "Tamaño de página (default 25, máximo 100)"
// @Success 200 {object} petListEnvelope
// @Failure 500 {object} errs.Body
// @Router /pets [get]
func listPetsHandler(svc *Service, overviews OverviewProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.List(r.Context(), ParseListQuery(r.URL.Query()))
		if err != nil {
			writeError(w, err)
			return
		}

		ids := make([]string, 0, len(page.Items))
		for _, p := range page.Items {
			ids = append(ids, p.ID)
		}
		ov, err := loadOverviews(r, overviews, ids)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]petResponse, 0, len(page.Items))
		for _, p := range page.Items {
			out = append(out, toPetResponse(p, ov[p.ID]))
		}
		writeJSON(w, http.StatusOK, petListEnvelope{Pets: out, Meta: page.Meta})
	}
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea una mascota. name y breed de 2 a 100 caracteres, age entero entre 0 y 30.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body petRequest true "Mascota bajo la clave pet"
// @Success 201 {object} petEnvelope
// @Failure 400 {object} errs.Body "falta la clave pet / json inválido"
// @Failure 422 {object} errs.Body "validación"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attrs, err := decodePet(r)
		if err != nil {
			writeError(w, err)
			return
		}

		p, err := svc.Create(r.Context(), attrs.input())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, petEnvelope{Pet: toPetResponse(p, Overview{})})
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petEnvelope
// @Failure 404 {object} errs.Body
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, overviews OverviewProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writePet(w, r, overviews, p)
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description Actualización parcial: campos ausentes no se tocan. PUT y PATCH se comportan igual.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body petRequest true "Campos a modificar bajo la clave pet"
// @Success 200 {object} petEnvelope
// @Failure 400 {object} errs.Body
// @Failure 404 {object} errs.Body
// @Failure 422 {object} errs.Body
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service, overviews OverviewProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if _, err := svc.GetByID(r.Context(), petID); err != nil {
			writeError(w, err)
			return
		}

		attrs, err := decodePet(r)
		if err != nil {
			writeError(w, err)
			return
		}

		p, err := svc.Update(r.Context(), petID, attrs.input())
		if err != nil {
			writeError(w, err)
			return
		}
		writePet(w, r, overviews, p)
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra la mascota y todos sus registros de vacunación.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204
// @Failure 404 {object} errs.Body
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodePet(r *http.Request) (petAttributes, error) {
	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return petAttributes{}, errs.BadRequest("invalid json")
	}
	if req.Pet == nil {
		return petAttributes{}, errs.BadRequest("param is missing or the value is empty: pet")
	}
	return *req.Pet, nil
}

func writePet(w http.ResponseWriter, r *http.Request, overviews OverviewProvider, p Pet) {
	ov, err := loadOverviews(r, overviews, []string{p.ID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, petEnvelope{Pet: toPetResponse(p, ov[p.ID])})
}

func loadOverviews(r *http.Request, overviews OverviewProvider, ids []string) (map[string]Overview, error) {
	if overviews == nil || len(ids) == 0 {
		return map[string]Overview{}, nil
	}
	return overviews.Overviews(r.Context(), ids)
}

func toPetResponse(p Pet, ov Overview) petResponse {
	upcoming := make([]upcomingExpirationResponse, 0, len(ov.Upcoming))
	for _, u := range ov.Upcoming {
		upcoming = append(upcoming, upcomingExpirationResponse{
			ID:              u.ID,
			Name:            u.Name,
			ExpiryDate:      dates.Format(u.ExpiryDate),
			DaysUntilExpiry: u.DaysUntilExpiry,
		})
	}

	return petResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		Breed:                  p.Breed,
		Age:                    p.Age,
		AgeCategory:            p.AgeCategory(),
		HasExpiredVaccinations: ov.HasExpired(),
		VaccinationSummary: vaccinationSummaryResponse{
			Total:        ov.Summary.Total,
			Expired:      ov.Summary.Expired,
			Active:       ov.Summary.Active,
			ExpiringSoon: ov.Summary.ExpiringSoon,
		},
		UpcomingExpirations:    upcoming,
		LastNotificationSentAt: p.LastNotificationSentAt,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(err), errs.ToBody(err))
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos (pets/vaccinations)
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
