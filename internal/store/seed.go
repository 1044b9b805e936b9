// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// seedPersons is the starter data set for a fresh database.
var seedPersons = []CreatePersonParams{
	{Name: "Harry Potter", Age: 17},
	{Name: "Hermione Granger", Age: 18},
	{Name: "Ron Weasley", Age: 17},
	{Name: "Albus Dumbledore", Age: 115},
	{Name: "Minerva McGonagall", Age: 70},
	{Name: "Severus Snape", Age: 38},
	{Name: "Rubeus Hagrid", Age: 63},
	{Name: "Luna Lovegood", Age: 16},
	{Name: "Neville Longbottom", Age: 17},
	{Name: "Ginny Weasley", Age: 16},
	{Name: "Draco Malfoy", Age: 17},
	{Name: "Sirius Black", Age: 36},
}

// Seed populates an empty database with starter persons. A non-empty
// database is left untouched.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}

	queries := New(db)

	count, err := queries.CountPersons(ctx)
	if err != nil {
		return fmt.Errorf("counting persons: %w", err)
	}
	if count > 0 {
		slog.Info("persons already present, skipping seed", "count", count)
		return nil
	}

	for _, p := range seedPersons {
		if _, err := queries.CreatePerson(ctx, p); err != nil {
			return fmt.Errorf("seeding person %q: %w", p.Name, err)
		}
	}

	slog.Info("seeded starter persons", "count", len(seedPersons))
	return nil
}
