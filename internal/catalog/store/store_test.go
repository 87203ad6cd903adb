package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaahaverse/vivaah/internal/catalog"
	"github.com/vivaahaverse/vivaah/internal/catalog/store"
)

var listingColumns = []string{
	"id", "vendor_id", "vendor_name", "service_name", "category", "price", "price_type",
	"description", "location", "created_at", "updated_at",
}

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return store.New(db), mock
}

func TestStore_ListListingsByCategory(t *testing.T) {
	s, mock := newStore(t)
	id := uuid.New()

	mock.ExpectQuery(`AND LOWER\(category\) = LOWER\(\$1\) ORDER BY created_at DESC`).
		WithArgs("Venue").
		WillReturnRows(sqlmock.NewRows(listingColumns).AddRow(
			id.String(), uuid.NewString(), "Asha Events", "Lakeside Lawn", "Venue", int64(9000000), "per day",
			"", "Udaipur", time.Now(), nil,
		))

	got, err := s.ListListings(context.Background(), catalog.ListFilter{Category: new("Venue")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "per day", got[0].PriceType)
}

func TestStore_UpdateListingNotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("UPDATE vendor_services").WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := s.UpdateListing(context.Background(), &catalog.Listing{ID: uuid.New()})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_DeleteListing(t *testing.T) {
	s, mock := newStore(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM vendor_services").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.DeleteListing(context.Background(), id))
}
