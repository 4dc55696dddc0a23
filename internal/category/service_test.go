package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, filter string) ([]Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("List", ctx, "milk").Return([]Category{{Name: "Milk", ProductCount: 3}}, nil)

		res, err := svc.List(ctx, "milk")

		assert.NoError(t, err)
		assert.Equal(t, 3, res[0].ProductCount)
		repo.AssertExpectations(t)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("List", ctx, "").Return(nil, errors.New("db down"))

		res, err := svc.List(ctx, "")

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}
