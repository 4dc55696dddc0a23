package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Resolve(ctx context.Context, address string) (Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(Coordinates), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, loc *Location) error {
	args := m.Called(ctx, loc)
	if args.Error(0) == nil {
		loc.ID = 3
	}
	return args.Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint) ([]Location, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Location), args.Error(1)
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, geo := new(MockRepository), new(MockGeocoder)
		svc := NewService(repo, geo)

		geo.On("Resolve", ctx, "12 MG Road").Return(Coordinates{Latitude: 18.5, Longitude: 73.8}, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(l *Location) bool {
			return l.UserID == 1 && l.Address == "12 MG Road" && l.Latitude == 18.5
		})).Return(nil)

		loc, err := svc.Save(ctx, 1, "  12 MG Road ")
		require.NoError(t, err)
		assert.Equal(t, uint(3), loc.ID)
	})

	t.Run("Blank address", func(t *testing.T) {
		repo, geo := new(MockRepository), new(MockGeocoder)
		svc := NewService(repo, geo)

		_, err := svc.Save(ctx, 1, "   ")
		assert.ErrorIs(t, err, ErrAddressRequired)
		geo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("Not found is not saved", func(t *testing.T) {
		repo, geo := new(MockRepository), new(MockGeocoder)
		svc := NewService(repo, geo)

		geo.On("Resolve", ctx, "Atlantis").Return(Coordinates{}, ErrLocationNotFound)

		_, err := svc.Save(ctx, 1, "Atlantis")
		assert.ErrorIs(t, err, ErrLocationNotFound)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Store failure", func(t *testing.T) {
		repo, geo := new(MockRepository), new(MockGeocoder)
		svc := NewService(repo, geo)

		geo.On("Resolve", ctx, "Pune").Return(Coordinates{Latitude: 1, Longitude: 2}, nil)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := svc.Save(ctx, 1, "Pune")
		assert.Error(t, err)
	})
}

func TestRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO delivery_locations`).
		WithArgs(uint(1), "Pune", 18.5, 73.8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(4, now))

	loc := &Location{UserID: 1, Address: "Pune", Latitude: 18.5, Longitude: 73.8}
	require.NoError(t, repo.Create(context.Background(), loc))
	assert.Equal(t, uint(4), loc.ID)

	mock.ExpectQuery(`FROM delivery_locations\s+WHERE user_id = \$1`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "address", "latitude", "longitude", "created_at"}).
			AddRow(4, 1, "Pune", 18.5, 73.8, now))

	list, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pune", list[0].Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}
