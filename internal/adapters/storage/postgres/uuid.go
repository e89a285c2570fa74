package postgres

import "github.com/google/uuid"

// Un id que no es uuid no puede existir: se evita el error de cast de Postgres y se responde 404.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
