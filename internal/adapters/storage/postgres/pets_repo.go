package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-vaccinations/internal/domain/pets"
)

// Columnas ordenables: la whitelist de pets.SortableFields mapeada a SQL.
var petSortColumns = map[string]string{
	"name":       "p.name",
	"breed":      "p.breed",
	"age":        "p.age",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

const petColumns = `p.id, p.name, p.breed, p.age, p.last_notification_sent_at, p.created_at, p.updated_at`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, name, breed, age,
			last_notification_sent_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		p.ID,
		p.Name,
		p.Breed,
		p.Age,
		toNullTime(p.LastNotificationSentAt),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			breed = $3,
			age = $4,
			updated_at = $5
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Breed,
		p.Age,
		p.UpdatedAt,
	)
	return expectOne(res, err, pets.ErrNotFound)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if !validUUID(id) {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets p WHERE p.id = $1`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

// Delete: los registros se borran por ON DELETE CASCADE.
func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return pets.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	return expectOne(res, err, pets.ErrNotFound)
}

func (r *PetsRepo) List(ctx context.Context, q pets.ListQuery) ([]pets.Pet, int, error) {
	where, args := petFilters(q)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []pets.Pet{}, 0, nil
	}

	col, ok := petSortColumns[q.Sort.Field]
	if !ok {
		col = petSortColumns[pets.DefaultSort.Field]
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + petColumns + ` FROM pets p`)
	sb.WriteString(where)
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s, p.id ASC", col, q.Sort.Direction()))
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, q.Page.Limit(), q.Page.Offset())

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0, q.Page.Limit())
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PetsRepo) TouchNotificationSentAt(ctx context.Context, id string, at time.Time) error {
	if !validUUID(id) {
		return pets.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE pets SET last_notification_sent_at = $2 WHERE id = $1`, id, at)
	return expectOne(res, err, pets.ErrNotFound)
}

// petFilters arma el WHERE en orden fijo: breed, age_category, has_expired_vaccinations.
// El filtro de vencidas es un EXISTS sobre (pet_id, expired), no un join por fila.
func petFilters(q pets.ListQuery) (string, []any) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 3)
	argN := 1

	if q.Breed != "" {
		conds = append(conds, fmt.Sprintf("LOWER(p.breed) = LOWER($%d)", argN))
		args = append(args, q.Breed)
		argN++
	}

	if lo, hi, ok := q.AgeCategory.Bounds(); ok {
		conds = append(conds, fmt.Sprintf("p.age >= $%d AND p.age < $%d", argN, argN+1))
		args = append(args, lo, hi)
		argN += 2
	}

	if q.HasExpiredVaccinations != nil {
		exists := `EXISTS (SELECT 1 FROM vaccination_records vr WHERE vr.pet_id = p.id AND vr.expired = TRUE)`
		if !*q.HasExpiredVaccinations {
			exists = "NOT " + exists
		}
		conds = append(conds, exists)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var notified sql.NullTime
	if err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Breed,
		&p.Age,
		&notified,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	if notified.Valid {
		t := notified.Time
		p.LastNotificationSentAt = &t
	}
	return p, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func expectOne(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound
	}
	return nil
}
