package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createClient = `
INSERT INTO client (first_name, last_name, gender, profession, phone_number, debit)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, first_name, last_name, gender, profession, phone_number, debit, created_at, updated_at
`

type CreateClientParams struct {
	FirstName   string
	LastName    string
	Gender      string
	Profession  pgtype.Text
	PhoneNumber string
	Debit       pgtype.Numeric
}

func (q *Queries) CreateClient(ctx context.Context, arg CreateClientParams) (Client, error) {
	row := q.db.QueryRow(ctx, createClient,
		arg.FirstName,
		arg.LastName,
		arg.Gender,
		arg.Profession,
		arg.PhoneNumber,
		arg.Debit,
	)
	var c Client
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Gender,
		&c.Profession,
		&c.PhoneNumber,
		&c.Debit,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

const getClient = `
SELECT id, first_name, last_name, gender, profession, phone_number, debit, created_at, updated_at
FROM client
WHERE id = $1
`

func (q *Queries) GetClient(ctx context.Context, id uuid.UUID) (Client, error) {
	row := q.db.QueryRow(ctx, getClient, id)
	var c Client
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Gender,
		&c.Profession,
		&c.PhoneNumber,
		&c.Debit,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

const listClients = `
SELECT id, first_name, last_name, gender, profession, phone_number, debit, created_at, updated_at
FROM client
WHERE ($1::text IS NULL
	OR first_name ILIKE '%' || $1 || '%'
	OR last_name ILIKE '%' || $1 || '%'
	OR phone_number ILIKE '%' || $1 || '%')
ORDER BY last_name, first_name
LIMIT $2 OFFSET $3
`

type ListClientsParams struct {
	Search pgtype.Text
	Limit  int32
	Offset int32
}

func (q *Queries) ListClients(ctx context.Context, arg ListClientsParams) ([]Client, error) {
	rows, err := q.db.Query(ctx, listClients, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(
			&c.ID,
			&c.FirstName,
			&c.LastName,
			&c.Gender,
			&c.Profession,
			&c.PhoneNumber,
			&c.Debit,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const updateClient = `
UPDATE client
SET first_name = $2,
	last_name = $3,
	gender = $4,
	profession = $5,
	phone_number = $6,
	debit = $7,
	updated_at = now()
WHERE id = $1
RETURNING id, first_name, last_name, gender, profession, phone_number, debit, created_at, updated_at
`

type UpdateClientParams struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Gender      string
	Profession  pgtype.Text
	PhoneNumber string
	Debit       pgtype.Numeric
}

func (q *Queries) UpdateClient(ctx context.Context, arg UpdateClientParams) (Client, error) {
	row := q.db.QueryRow(ctx, updateClient,
		arg.ID,
		arg.FirstName,
		arg.LastName,
		arg.Gender,
		arg.Profession,
		arg.PhoneNumber,
		arg.Debit,
	)
	var c Client
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Gender,
		&c.Profession,
		&c.PhoneNumber,
		&c.Debit,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

const deleteClient = `
DELETE FROM client
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteClient(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteClient, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
