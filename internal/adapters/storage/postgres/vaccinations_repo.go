package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-vaccinations/internal/domain/vaccinations"
	"pet-vaccinations/internal/platform/dates"
)

var recordSortColumns = map[string]string{
	"name":             "name",
	"vaccination_date": "vaccination_date",
	"expiry_date":      "expiry_date",
	"created_at":       "created_at",
	"updated_at":       "updated_at",
}

const recordColumns = `id, pet_id, name, vaccination_date, expiry_date, expired, created_at, updated_at`

type VaccinationsRepo struct {
	db *sql.DB
}

func NewVaccinationsRepo(db *sql.DB) *VaccinationsRepo {
	return &VaccinationsRepo{db: db}
}

func (r *VaccinationsRepo) Create(ctx context.Context, rec vaccinations.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccination_records (
			id, pet_id, name,
			vaccination_date, expiry_date, expired,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		rec.ID,
		rec.PetID,
		rec.Name,
		rec.VaccinationDate,
		rec.ExpiryDate,
		rec.Expired,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

// Update bloquea la fila (FOR UPDATE) para leer el expired vigente y, con keepExpired,
// no revertir un vencimiento que otro proceso ya grabó.
func (r *VaccinationsRepo) Update(ctx context.Context, rec vaccinations.Record, keepExpired bool) (vaccinations.Record, bool, error) {
	if !validUUID(rec.ID) {
		return vaccinations.Record{}, false, vaccinations.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		WITH prev AS (
			SELECT id, expired FROM vaccination_records WHERE id = $1 FOR UPDATE
		)
		UPDATE vaccination_records v
		SET
			name = $2,
			vaccination_date = $3,
			expiry_date = $4,
			expired = CASE WHEN $7::boolean THEN v.expired OR $5::boolean ELSE $5::boolean END,
			updated_at = $6
		FROM prev
		WHERE v.id = prev.id
		RETURNING
			v.id, v.pet_id, v.name, v.vaccination_date, v.expiry_date,
			v.expired, v.created_at, v.updated_at, prev.expired
	`,
		rec.ID,
		rec.Name,
		rec.VaccinationDate,
		rec.ExpiryDate,
		rec.Expired,
		rec.UpdatedAt,
		keepExpired,
	)

	var wasExpired bool
	stored, err := scanRecord(row, &wasExpired)
	if errors.Is(err, sql.ErrNoRows) {
		return vaccinations.Record{}, false, vaccinations.ErrNotFound
	}
	if err != nil {
		return vaccinations.Record{}, false, err
	}
	return stored, wasExpired, nil
}

func (r *VaccinationsRepo) GetByID(ctx context.Context, id string) (vaccinations.Record, error) {
	if !validUUID(id) {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM vaccination_records WHERE id = $1`, id)
	return scanRecordOrNotFound(row)
}

func (r *VaccinationsRepo) GetForPet(ctx context.Context, petID, id string) (vaccinations.Record, error) {
	if !validUUID(petID) || !validUUID(id) {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM vaccination_records
		WHERE id = $1 AND pet_id = $2
	`, id, petID)
	return scanRecordOrNotFound(row)
}

func (r *VaccinationsRepo) Delete(ctx context.Context, petID, id string) error {
	if !validUUID(petID) || !validUUID(id) {
		return vaccinations.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccination_records WHERE id = $1 AND pet_id = $2`, id, petID)
	return expectOne(res, err, vaccinations.ErrNotFound)
}

func (r *VaccinationsRepo) ListByPet(ctx context.Context, petID string, q vaccinations.ListQuery) ([]vaccinations.Record, int, error) {
	if !validUUID(petID) {
		return []vaccinations.Record{}, 0, nil
	}

	where, args := recordFilters(petID, q)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vaccination_records`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []vaccinations.Record{}, 0, nil
	}

	col, ok := recordSortColumns[q.Sort.Field]
	if !ok {
		col = recordSortColumns[vaccinations.DefaultSort.Field]
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + recordColumns + ` FROM vaccination_records`)
	sb.WriteString(where)
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s, id ASC", col, q.Sort.Direction()))
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, q.Page.Limit(), q.Page.Offset())

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]vaccinations.Record, 0, q.Page.Limit())
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

// ListByPets: una sola consulta para toda la página de mascotas.
func (r *VaccinationsRepo) ListByPets(ctx context.Context, petIDs []string) (map[string][]vaccinations.Record, error) {
	ids := make([]string, 0, len(petIDs))
	for _, id := range petIDs {
		if validUUID(id) {
			ids = append(ids, id)
		}
	}
	out := make(map[string][]vaccinations.Record, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM vaccination_records
		WHERE pet_id = ANY($1::uuid[])
		ORDER BY expiry_date ASC, id ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out[rec.PetID] = append(out[rec.PetID], rec)
	}
	return out, rows.Err()
}

// MarkExpired: UPDATE condicional; dos llamadas concurrentes no pueden ganar ambas.
func (r *VaccinationsRepo) MarkExpired(ctx context.Context, id string, at time.Time) (vaccinations.Record, error) {
	if !validUUID(id) {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE vaccination_records
		SET expired = TRUE, updated_at = $2
		WHERE id = $1 AND expired = FALSE
		RETURNING `+recordColumns, id, at)
	rec, err := scanRecord(row)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return vaccinations.Record{}, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM vaccination_records WHERE id = $1)`, id).Scan(&exists); err != nil {
		return vaccinations.Record{}, err
	}
	if !exists {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	return vaccinations.Record{}, vaccinations.ErrAlreadyExpired
}

// MarkExpiredBefore: un único UPDATE en bloque (O(1) round trips).
func (r *VaccinationsRepo) MarkExpiredBefore(ctx context.Context, today, at time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE vaccination_records
		SET expired = TRUE, updated_at = $2
		WHERE expiry_date < $1 AND expired = FALSE
		RETURNING id
	`, dates.On(today), at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// recordFilters: pet_id, luego status, luego expiring soon.
func recordFilters(petID string, q vaccinations.ListQuery) (string, []any) {
	conds := []string{"pet_id = $1"}
	args := []any{petID}
	argN := 2 // $1 es pet_id

	switch q.Status {
	case vaccinations.StatusExpired:
		conds = append(conds, "expired = TRUE")
	case vaccinations.StatusActive:
		conds = append(conds, "expired = FALSE")
	}

	if limit, ok := q.ExpiringBefore(); ok {
		conds = append(conds, fmt.Sprintf("expired = FALSE AND expiry_date <= $%d", argN))
		args = append(args, limit)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanRecordOrNotFound(row *sql.Row) (vaccinations.Record, error) {
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return vaccinations.Record{}, vaccinations.ErrNotFound
	}
	return rec, err
}

// scanRecord lee recordColumns y, a continuación, las columnas extra que pida el caller.
func scanRecord(s rowScanner, extra ...any) (vaccinations.Record, error) {
	var rec vaccinations.Record
	dest := append([]any{
		&rec.ID,
		&rec.PetID,
		&rec.Name,
		&rec.VaccinationDate,
		&rec.ExpiryDate,
		&rec.Expired,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return vaccinations.Record{}, err
	}
	// date llega como medianoche UTC; se normaliza por si el driver aplica otra location.
	rec.VaccinationDate = dates.On(rec.VaccinationDate)
	rec.ExpiryDate = dates.On(rec.ExpiryDate)
	return rec, nil
}
