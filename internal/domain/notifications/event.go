package notifications

import (
	"time"

	"pet-vaccinations/internal/domain/pets"
	"pet-vaccinations/internal/domain/vaccinations"
	"pet-vaccinations/internal/platform/dates"
)

const EventVaccinationExpired = "vaccination.expired"

// Event es el payload que reciben los canales (webhook, kafka, log).
type Event struct {
	Event               string `json:"event"`
	PetID               string `json:"pet_id"`
	VaccinationRecordID string `json:"vaccination_record_id"`
	PetName             string `json:"pet_name"`
	VaccinationName     string `json:"vaccination_name"`
	ExpiryDate          string `json:"expiry_date"`
	Timestamp           string `json:"timestamp"`

	// Solo para el log sink.
	PetBreed        string `json:"-"`
	VaccinationDate string `json:"-"`
}

func NewEvent(p pets.Pet, r vaccinations.Record, now time.Time) Event {
	return Event{
		Event:               EventVaccinationExpired,
		PetID:               p.ID,
		VaccinationRecordID: r.ID,
		PetName:             p.Name,
		VaccinationName:     r.Name,
		ExpiryDate:          dates.Format(r.ExpiryDate),
		Timestamp:           now.UTC().Format(time.RFC3339),
		PetBreed:            p.Breed,
		VaccinationDate:     dates.Format(r.VaccinationDate),
	}
}
