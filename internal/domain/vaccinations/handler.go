package vaccinations

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-vaccinations/internal/platform/dates"
	"pet-vaccinations/internal/platform/errs"
	"pet-vaccinations/internal/platform/pagination"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/vaccination_records", func(vr chi.Router) {
		vr.Get("/", listRecordsHandler(svc))
		vr.Post("/", createRecordHandler(svc))

		vr.Get("/{recordID}", getRecordHandler(svc))
		vr.Patch("/{recordID}", updateRecordHandler(svc))
		vr.Put("/{recordID}", updateRecordHandler(svc))
		vr.Delete("/{recordID}", deleteRecordHandler(svc))

		vr.Post("/{recordID}/mark_as_expired", markAsExpiredHandler(svc))
	})
}

// recordRequest es el envoltorio {"vaccination_record": {...}}.
type recordRequest struct {
	VaccinationRecord *recordAttributes `json:"vaccination_record"`
}

type recordAttributes struct {
	Name            *string `json:"name"`
	VaccinationDate *string `json:"vaccination_date" example:"2025-01-15"` // YYYY-MM-DD
	ExpiryDate      *string `json:"expiry_date" example:"2026-01-15"`      // YYYY-MM-DD
	Expired         *bool   `json:"expired"`
}

// recordResponse representa un registro de vacunación devuelto por la API.
type recordResponse struct {
	ID              string    `json:"id"`
	PetID           string    `json:"pet_id"`
	Name            string    `json:"name"`
	VaccinationDate string    `json:"vaccination_date"`
	ExpiryDate      string    `json:"expiry_date"`
	Expired         bool      `json:"expired"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	ExpiringSoon    bool      `json:"expiring_soon"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type recordEnvelope struct {
	VaccinationRecord recordResponse `json:"vaccination_record"`
}

type recordListEnvelope struct {
	VaccinationRecords []recordResponse `json:"vaccination_records"`
	Meta               pagination.Meta  `json:"meta"`
}

// listRecordsHandler godoc
// @Summary Listar vacunas de una mascota
// @Description Lista paginada, por defecto ordenada por expiry_date ascendente.
// @Tags vaccination_records
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param status query string false "expired | active"
// @Param days_until_expiry query int false "Solo activos que vencen dentro de N días"
// @Param sort query string false "name, vaccination_date, expiry_date, created_at, updated_at; prefijo - para descendente"
// @Param page query int false "Página (default 1)"
// @Param per_page query int false "Tamaño de página (default 25, máximo 100)"
// @Success 200 {object} recordListEnvelope
// @Failure 404 {object} errs.Body "pet not found"
// @Router /pets/{petID}/vaccination_records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.List(r.Context(), chi.URLParam(r, "petID"), ParseListQuery(r.URL.Query()))
		if err != nil {
			writeError(w, err)
			return
		}

		today, window := svc.Today(), svc.ExpiringSoonDays()
		out := make([]recordResponse, 0, len(page.Items))
		for _, rec := range page.Items {
			out = append(out, toRecordResponse(rec, today, window))
		}
		writeJSON(w, http.StatusOK, recordListEnvelope{VaccinationRecords: out, Meta: page.Meta})
	}
}

// createRecordHandler godoc
// @Summary Registrar vacuna
// @Description expiry_date debe ser posterior a vaccination_date. Si expiry_date ya pasó, el registro se guarda como vencido.
// @Tags vaccination_records
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body recordRequest true "Registro bajo la clave vaccination_record"
// @Success 201 {object} recordEnvelope
// @Failure 400 {object} errs.Body
// @Failure 404 {object} errs.Body
// @Failure 422 {object} errs.Body
// @Router /pets/{petID}/vaccination_records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if _, err := svc.pets.GetByID(r.Context(), petID); err != nil {
			writeError(w, err)
			return
		}

		in, err := decodeRecord(r)
		if err != nil {
			writeError(w, err)
			return
		}

		rec, err := svc.Create(r.Context(), petID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, recordEnvelope{VaccinationRecord: toRecordResponse(rec, svc.Today(), svc.ExpiringSoonDays())})
	}
}

// getRecordHandler godoc
// @Summary Obtener vacuna
// @Tags vaccination_records
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param recordID path string true "ID del registro"
// @Success 200 {object} recordEnvelope
// @Failure 404 {object} errs.Body
// @Router /pets/{petID}/vaccination_records/{recordID} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "recordID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeRecord(w, svc, rec)
	}
}

// updateRecordHandler godoc
// @Summary Actualizar vacuna
// @Description Actualización parcial. expired solo cambia si se envía; un vencimiento pasado lo fuerza a true.
// @Tags vaccination_records
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param recordID path string true "ID del registro"
// @Param payload body recordRequest true "Campos a modificar bajo la clave vaccination_record"
// @Success 200 {object} recordEnvelope
// @Failure 400 {object} errs.Body
// @Failure 404 {object} errs.Body
// @Failure 422 {object} errs.Body
// @Router /pets/{petID}/vaccination_records/{recordID} [patch]
func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, id := chi.URLParam(r, "petID"), chi.URLParam(r, "recordID")
		if _, err := svc.Get(r.Context(), petID, id); err != nil {
			writeError(w, err)
			return
		}

		in, err := decodeRecord(r)
		if err != nil {
			writeError(w, err)
			return
		}

		rec, err := svc.Update(r.Context(), petID, id, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeRecord(w, svc, rec)
	}
}

// deleteRecordHandler godoc
// @Summary Borrar vacuna
// @Tags vaccination_records
// @Param petID path string true "ID de la mascota"
// @Param recordID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} errs.Body
// @Router /pets/{petID}/vaccination_records/{recordID} [delete]
func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "recordID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// markAsExpiredHandler godoc
// @Summary Marcar vacuna como vencida
// @Description Agenda la notificación de vencimiento. Si ya estaba vencida responde 400.
// @Tags vaccination_records
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param recordID path string true "ID del registro"
// @Success 200 {object} recordEnvelope
// @Failure 400 {object} errs.Body "ya vencida"
// @Failure 404 {object} errs.Body
// @Router /pets/{petID}/vaccination_records/{recordID}/mark_as_expired [post]
func markAsExpiredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.MarkAsExpired(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "recordID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeRecord(w, svc, rec)
	}
}

// decodeRecord valida el envoltorio y parsea fechas; un formato inválido es 422 sobre ese campo.
func decodeRecord(r *http.Request) (Input, error) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return Input{}, errs.BadRequest("invalid json")
	}
	if req.VaccinationRecord == nil {
		return Input{}, errs.BadRequest("param is missing or the value is empty: vaccination_record")
	}
	attrs := req.VaccinationRecord

	in := Input{Name: attrs.Name, Expired: attrs.Expired}
	verr := &errs.ValidationError{}
	in.VaccinationDate = parseDate(verr, "vaccination_date", attrs.VaccinationDate)
	in.ExpiryDate = parseDate(verr, "expiry_date", attrs.ExpiryDate)
	if err := verr.OrNil(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// parseDate: ausente => nil (no tocar); "" => fecha cero (la validación la reporta como blank).
func parseDate(verr *errs.ValidationError, field string, raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	if strings.TrimSpace(*raw) == "" {
		zero := time.Time{}
		return &zero
	}
	d, err := dates.Parse(*raw)
	if err != nil {
		verr.Add(field, "is not a valid date (YYYY-MM-DD)")
		return nil
	}
	return &d
}

func writeRecord(w http.ResponseWriter, svc *Service, rec Record) {
	writeJSON(w, http.StatusOK, recordEnvelope{VaccinationRecord: toRecordResponse(rec, svc.Today(), svc.ExpiringSoonDays())})
}

func toRecordResponse(r Record, today time.Time, window int) recordResponse {
	return recordResponse{
		ID:              r.ID,
		PetID:           r.PetID,
		Name:            r.Name,
		VaccinationDate: dates.Format(r.VaccinationDate),
		ExpiryDate:      dates.Format(r.ExpiryDate),
		Expired:         r.Expired,
		DaysUntilExpiry: DaysUntilExpiry(r, today),
		ExpiringSoon:    IsExpiringSoon(r, today, window),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
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
