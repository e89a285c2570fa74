package pets

import (
	"strings"
	"time"
	"unicode/utf8"

	"pet-vaccinations/internal/platform/errs"
)

// AgeCategory es la etiqueta derivada de la edad.
// @Enum young, adult, senior
type AgeCategory string

const (
	AgeYoung  AgeCategory = "young"
	AgeAdult  AgeCategory = "adult"
	AgeSenior AgeCategory = "senior"
)

const (
	MinAge = 0
	MaxAge = 30

	AdultFromAge  = 2
	SeniorFromAge = 8

	MinTextLen = 2
	MaxTextLen = 100
)

const (
	msgAgeNotANumber = "is not a number"
	msgAgeNotInteger = "must be an integer"
	msgAgeTooLow     = "must be greater than or equal to 0"
	msgAgeTooHigh    = "must be less than or equal to 30"
)

// CategoryOf particiona [0,30] en tres rangos contiguos: [0,2) [2,8) [8,30].
func CategoryOf(age int) AgeCategory {
	switch {
	case age < AdultFromAge:
		return AgeYoung
	case age < SeniorFromAge:
		return AgeAdult
	default:
		return AgeSenior
	}
}

// Bounds devuelve el rango [lo, hi) de edades de la categoría.
func (c AgeCategory) Bounds() (lo, hi int, ok bool) {
	switch c {
	case AgeYoung:
		return MinAge, AdultFromAge, true
	case AgeAdult:
		return AdultFromAge, SeniorFromAge, true
	case AgeSenior:
		return SeniorFromAge, MaxAge + 1, true
	default:
		return 0, 0, false
	}
}

// ParseAgeCategory acepta solo las tres etiquetas conocidas.
func ParseAgeCategory(s string) (AgeCategory, bool) {
	c := AgeCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, _, ok := c.Bounds(); !ok {
		return "", false
	}
	return c, true
}

// Pet es una mascota con su historial de vacunas (VaccinationRecord en su propio módulo).
type Pet struct {
	ID    string
	Name  string
	Breed string
	Age   int

	LastNotificationSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pet) AgeCategory() AgeCategory {
	return CategoryOf(p.Age)
}

// validate junta todas las violaciones. age nil => "can't be blank".
// ageErr, si viene, es el error de conversión de age y reemplaza a los demás chequeos de age.
func validate(name, breed string, age *int, ageErr string) error {
	verr := &errs.ValidationError{}

	checkText(verr, "name", name)
	checkText(verr, "breed", breed)

	switch {
	case ageErr != "":
		verr.Add("age", ageErr)
	case age == nil:
		verr.Add("age", "can't be blank")
	case *age < MinAge:
		verr.Add("age", msgAgeTooLow)
	case *age > MaxAge:
		verr.Add("age", msgAgeTooHigh)
	}

	return verr.OrNil()
}

func checkText(verr *errs.ValidationError, field, v string) {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	switch {
	case n == 0:
		verr.Add(field, "can't be blank")
	case n < MinTextLen:
		verr.Add(field, "is too short (minimum is 2 characters)")
	case n > MaxTextLen:
		verr.Add(field, "is too long (maximum is 100 characters)")
	}
}
