package vaccinations

import (
	"strings"
	"time"
	"unicode/utf8"

	"pet-vaccinations/internal/platform/errs"
)

// Status filtra por el flag expired.
// @Enum expired, active
type Status string

const (
	StatusExpired Status = "expired"
	StatusActive  Status = "active"
)

const (
	MinNameLen = 2
	MaxNameLen = 100
)

// Record es una vacuna aplicada a una mascota. Las fechas son fecha calendario (medianoche UTC).
// Expired es persistido: se normaliza en cada escritura y lo actualiza el sweep.
type Record struct {
	ID    string
	PetID string
	Name  string

	VaccinationDate time.Time
	ExpiryDate      time.Time
	Expired         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func validate(name string, vaccinationDate, expiryDate *time.Time) error {
	verr := &errs.ValidationError{}

	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		verr.Add("name", "can't be blank")
	case n < MinNameLen:
		verr.Add("name", "is too short (minimum is 2 characters)")
	case n > MaxNameLen:
		verr.Add("name", "is too long (maximum is 100 characters)")
	}

	if vaccinationDate == nil || vaccinationDate.IsZero() {
		verr.Add("vaccination_date", "can't be blank")
	}
	if expiryDate == nil || expiryDate.IsZero() {
		verr.Add("expiry_date", "can't be blank")
	}
	if !verr.Empty() {
		return verr
	}

	if !expiryDate.After(*vaccinationDate) {
		verr.Add("expiry_date", "must be after vaccination date")
	}
	return verr.OrNil()
}
