package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectListingColumns = `
	id, vendor_id, vendor_name, service_name, category, price, price_type,
	description, location, created_at, updated_at
`

func scanListing(s scanner) (*catalog.Listing, error) {
	var l catalog.Listing

	if err := s.Scan(
		&l.ID, &l.VendorID, &l.VendorName, &l.ServiceName, &l.Category, &l.Price, &l.PriceType,
		&l.Description, &l.Location, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &l, nil
}

func (s *Store) CreateListing(ctx context.Context, l *catalog.Listing) error {
	query := `
		INSERT INTO vendor_services (vendor_id, vendor_name, service_name, category, price, price_type,
			description, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		l.VendorID,
		l.VendorName,
		l.ServiceName,
		l.Category,
		l.Price,
		l.PriceType,
		l.Description,
		l.Location,
		l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("creating listing: %w", err)
	}

	return nil
}

func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	query := `SELECT ` + selectListingColumns + ` FROM vendor_services WHERE id = $1`

	l, err := scanListing(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting listing: %w", err)
	}

	return l, nil
}

func (s *Store) ListListings(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Listing, error) {
	query := `SELECT ` + selectListingColumns + ` FROM vendor_services WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.VendorID != nil {
		query += fmt.Sprintf(" AND vendor_id = $%d", argIdx)

		args = append(args, *filter.VendorID)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND LOWER(category) = LOWER($%d)", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer rows.Close()

	var listings []*catalog.Listing

	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}

		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listing rows: %w", err)
	}

	return listings, nil
}

func (s *Store) UpdateListing(ctx context.Context, l *catalog.Listing) error {
	query := `
		UPDATE vendor_services
		SET service_name = $1, category = $2, price = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		l.ServiceName, l.Category, l.Price, l.Description, l.ID,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.ErrNotFound
		}

		return fmt.Errorf("updating listing: %w", err)
	}

	return nil
}

func (s *Store) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM vendor_services WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}

	return nil
}
