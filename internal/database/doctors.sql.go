package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createDoctor = `
INSERT INTO doctor (first_name, last_name, specialty, phone_number)
VALUES ($1, $2, $3, $4)
RETURNING id, first_name, last_name, specialty, phone_number, created_at, updated_at
`

type CreateDoctorParams struct {
	FirstName   string
	LastName    string
	Specialty   pgtype.Text
	PhoneNumber string
}

func (q *Queries) CreateDoctor(ctx context.Context, arg CreateDoctorParams) (Doctor, error) {
	row := q.db.QueryRow(ctx, createDoctor,
		arg.FirstName,
		arg.LastName,
		arg.Specialty,
		arg.PhoneNumber,
	)
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Specialty,
		&d.PhoneNumber,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

const getDoctor = `
SELECT id, first_name, last_name, specialty, phone_number, created_at, updated_at
FROM doctor
WHERE id = $1
`

func (q *Queries) GetDoctor(ctx context.Context, id uuid.UUID) (Doctor, error) {
	row := q.db.QueryRow(ctx, getDoctor, id)
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Specialty,
		&d.PhoneNumber,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

const listDoctors = `
SELECT id, first_name, last_name, specialty, phone_number, created_at, updated_at
FROM doctor
WHERE ($1::text IS NULL
	OR first_name ILIKE '%' || $1 || '%'
	OR last_name ILIKE '%' || $1 || '%'
	OR specialty ILIKE '%' || $1 || '%')
ORDER BY last_name, first_name
LIMIT $2 OFFSET $3
`

type ListDoctorsParams struct {
	Search pgtype.Text
	Limit  int32
	Offset int32
}

func (q *Queries) ListDoctors(ctx context.Context, arg ListDoctorsParams) ([]Doctor, error) {
	rows, err := q.db.Query(ctx, listDoctors, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(
			&d.ID,
			&d.FirstName,
			&d.LastName,
			&d.Specialty,
			&d.PhoneNumber,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const updateDoctor = `
UPDATE doctor
SET first_name = $2,
	last_name = $3,
	specialty = $4,
	phone_number = $5,
	updated_at = now()
WHERE id = $1
RETURNING id, first_name, last_name, specialty, phone_number, created_at, updated_at
`

type UpdateDoctorParams struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Specialty   pgtype.Text
	PhoneNumber string
}

func (q *Queries) UpdateDoctor(ctx context.Context, arg UpdateDoctorParams) (Doctor, error) {
	row := q.db.QueryRow(ctx, updateDoctor,
		arg.ID,
		arg.FirstName,
		arg.LastName,
		arg.Specialty,
		arg.PhoneNumber,
	)
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Specialty,
		&d.PhoneNumber,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

const deleteDoctor = `
DELETE FROM doctor
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteDoctor(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteDoctor, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
