package errs

import (
	"errors"
	"net/http"
)

// Body es el cuerpo JSON de error de la API.
type Body struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// HTTPStatus: validación 422, no encontrado 404, bad request y conflicto 400, resto 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToBody arma el cuerpo para err. Errores internos no exponen el mensaje.
func ToBody(err error) Body {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return Body{Error: "Validation failed", Message: verr.Error(), Errors: verr.Messages()}
	case errors.Is(err, ErrNotFound):
		return Body{Error: "Record not found", Message: err.Error()}
	case errors.Is(err, ErrBadRequest):
		return Body{Error: "Bad request", Message: err.Error()}
	case errors.Is(err, ErrConflict):
		return Body{Error: err.Error()}
	default:
		return Body{Error: "Internal server error"}
	}
}
