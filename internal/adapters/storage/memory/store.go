package memory

import (
	"context"
	"sync"

	"pet-vaccinations/internal/domain/pets"
	"pet-vaccinations/internal/domain/vaccinations"
)

// Store guarda mascotas y registros bajo un mismo lock: el borrado en cascada y el sweep son atómicos.
type Store struct {
	mu      sync.RWMutex
	pets    map[string]pets.Pet
	records map[string]vaccinations.Record
}

func NewStore() *Store {
	return &Store{
		pets:    make(map[string]pets.Pet),
		records: make(map[string]vaccinations.Record),
	}
}

// Ping existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

// petsWithExpiredLocked arma en una pasada el set de mascotas con al menos un registro vencido.
func (s *Store) petsWithExpiredLocked() map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range s.records {
		if r.Expired {
			set[r.PetID] = struct{}{}
		}
	}
	return set
}
