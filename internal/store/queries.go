// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pman-go/internal/model"
)

// Queries wraps a database handle with typed person queries.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance backed by db.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// CreatePersonParams holds the fields needed to create a person.
type CreatePersonParams struct {
	Name string
	Age  int
}

// UpdatePersonParams holds the fields for a full person replacement.
type UpdatePersonParams struct {
	ID   string
	Name string
	Age  int
}

// ListPersons returns one page of persons ordered by creation time.
func (q *Queries) ListPersons(ctx context.Context, limit, offset int) ([]model.Person, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, age FROM persons ORDER BY created_at, id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	persons := []model.Person{}
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Age); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// CountPersons returns the total number of persons.
func (q *Queries) CountPersons(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&count)
	return count, err
}

// GetPerson fetches a person by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetPerson(ctx context.Context, id string) (model.Person, error) {
	var p model.Person
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, age FROM persons WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Age)
	return p, err
}

// CreatePerson inserts a new person with a generated UUID.
func (q *Queries) CreatePerson(ctx context.Context, arg CreatePersonParams) (model.Person, error) {
	p := model.Person{
		ID:   uuid.NewString(),
		Name: arg.Name,
		Age:  arg.Age,
	}
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO persons (id, name, age, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Age, now, now)
	if err != nil {
		return model.Person{}, err
	}
	return p, nil
}

// UpdatePerson replaces the stored record. Returns sql.ErrNoRows if the ID
// does not exist.
func (q *Queries) UpdatePerson(ctx context.Context, arg UpdatePersonParams) (model.Person, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE persons SET name = ?, age = ?, updated_at = ? WHERE id = ?`,
		arg.Name, arg.Age, time.Now().UTC(), arg.ID)
	if err != nil {
		return model.Person{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Person{}, err
	}
	if affected == 0 {
		return model.Person{}, sql.ErrNoRows
	}
	return model.Person{ID: arg.ID, Name: arg.Name, Age: arg.Age}, nil
}

// DeletePerson removes a person and returns the deleted record. Returns
// sql.ErrNoRows if the ID does not exist.
func (q *Queries) DeletePerson(ctx context.Context, id string) (model.Person, error) {
	p, err := q.GetPerson(ctx, id)
	if err != nil {
		return model.Person{}, err
	}
	if _, err := q.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id); err != nil {
		return model.Person{}, err
	}
	return p, nil
}
