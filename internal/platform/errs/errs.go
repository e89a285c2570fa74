package errs

import (
	"errors"
	"strings"
)

// Sentinels compartidos entre módulos. Los handlers mapean con errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrBadRequest        = errors.New("bad request")
	ErrTransientDelivery = errors.New("transient delivery error")
)

// FieldError describe una restricción violada sobre un campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FullMessage devuelve "Name is too short ..." (campo humanizado + mensaje).
func (f FieldError) FullMessage() string {
	return humanize(f.Field) + " " + f.Message
}

// ValidationError agrupa todas las violaciones de una operación.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Errors) == 0
}

// OrNil devuelve nil si no hay violaciones (evita el nil-interface trap).
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors {
		out = append(out, f.FullMessage())
	}
	return out
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Conflict envuelve ErrConflict con un mensaje para el cliente.
func Conflict(msg string) error {
	return &wrapped{msg: msg, base: ErrConflict}
}

// NotFound envuelve ErrNotFound con un mensaje para el cliente.
func NotFound(msg string) error {
	return &wrapped{msg: msg, base: ErrNotFound}
}

// BadRequest envuelve ErrBadRequest (p.ej. falta el parámetro raíz del body).
func BadRequest(msg string) error {
	return &wrapped{msg: msg, base: ErrBadRequest}
}

type wrapped struct {
	msg  string
	base error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.base }

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
