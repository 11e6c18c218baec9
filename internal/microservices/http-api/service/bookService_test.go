package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"booktracker/internal/microservices/http-api/dto"
	"booktracker/internal/microservices/http-api/models"
	"booktracker/internal/microservices/http-api/repository"
	"booktracker/internal/microservices/http-api/service"
	"booktracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	mu   sync.Mutex
	next time.Time
}

func newStepClock() *stepClock {
	return &stepClock{next: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

func newService(t *testing.T) (service.BookService, *stepClock) {
	clock := newStepClock()
	repo := repository.NewBookRepository(testutil.NewSQLiteDB(t))
	return service.NewBookService(repo, testutil.DiscardLogger(), service.WithClock(clock.Now)), clock
}

func TestBookService_CreateThenGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	in := dto.BookInput{Title: "  Dune  ", Author: " Herbert", Status: "reading", Rating: intPtr(9), Notes: stringPtr(" great ")}
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Herbert", got.Author)
	assert.Equal(t, models.StatusReading, got.Status)
	assert.Equal(t, intPtr(9), got.Rating)
	assert.Equal(t, stringPtr("great"), got.Notes)
}

func TestBookService_CreateWithoutOptionals(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(context.Background(), dto.BookInput{Title: "Dune", Author: "Herbert", Status: "to-read"})
	require.NoError(t, err)
	assert.Nil(t, created.Rating)
	assert.Nil(t, created.Notes)
}

func TestBookService_UpdateIsFullReplace(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.BookInput{Title: "Dune", Author: "Herbert", Status: "reading", Rating: intPtr(6), Notes: stringPtr("slow start")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, dto.BookInput{Title: "Dune", Author: "Frank Herbert", Status: "completed"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Frank Herbert", updated.Author)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Nil(t, updated.Rating)
	assert.Nil(t, updated.Notes)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestBookService_UpdateIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.BookInput{Title: "Dune", Author: "Herbert", Status: "to-read"})
	require.NoError(t, err)

	in := dto.BookInput{Title: "Dune", Author: "Herbert", Status: "completed", Rating: intPtr(10), Notes: stringPtr("classic")}
	first, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	second, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Author, second.Author)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Rating, second.Rating)
	assert.Equal(t, first.Notes, second.Notes)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "updatedAt advances on every update")
}

func TestBookService_UpdateMissing(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Update(context.Background(), 999999, dto.BookInput{Title: "Dune", Author: "Herbert", Status: "to-read"})
	assert.ErrorIs(t, err, service.ErrBookNotFound)
}

func TestBookService_DeleteThenGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.BookInput{Title: "Dune", Author: "Herbert", Status: "to-read"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrBookNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), service.ErrBookNotFound)
}

func TestBookService_ListFilters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, in := range []dto.BookInput{
		{Title: "Dune", Author: "Frank Herbert", Status: "completed"},
		{Title: "Neuromancer", Author: "William Gibson", Status: "reading"},
		{Title: "Foundation", Author: "Isaac Asimov", Status: "completed"},
		{Title: "Count Zero", Author: "William Gibson", Status: "to-read"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	completed, err := svc.List(ctx, dto.BookFilters{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed, 2)
	for _, b := range completed {
		assert.Equal(t, models.StatusCompleted, b.Status)
	}
	assert.Equal(t, "Foundation", completed[0].Title, "newest first")

	found, err := svc.List(ctx, dto.BookFilters{Search: "Gibson"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Count Zero", found[0].Title)
	assert.Equal(t, "Neuromancer", found[1].Title)

	found, err = svc.List(ctx, dto.BookFilters{Search: "Zero", Author: "Gibson", Status: "to-read"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

// MockBookRepository lets the error paths run without a database.
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(ctx context.Context, filters dto.BookFilters) ([]models.Book, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, b *models.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookRepository) Replace(ctx context.Context, b *models.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestBookService_StorageFailuresPropagate(t *testing.T) {
	boom := errors.New("disk I/O error")
	in := dto.BookInput{Title: "Dune", Author: "Herbert", Status: "to-read"}

	t.Run("create", func(t *testing.T) {
		repo := new(MockBookRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).Return(boom).Once()

		_, err := service.NewBookService(repo, testutil.DiscardLogger()).Create(context.Background(), in)
		assert.ErrorIs(t, err, boom)
		repo.AssertExpectations(t)
	})

	t.Run("update stops when exists check fails", func(t *testing.T) {
		repo := new(MockBookRepository)
		repo.On("Exists", mock.Anything, int64(3)).Return(false, boom).Once()

		_, err := service.NewBookService(repo, testutil.DiscardLogger()).Update(context.Background(), 3, in)
		assert.ErrorIs(t, err, boom)
		repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	})

	t.Run("update sees a concurrent delete", func(t *testing.T) {
		repo := new(MockBookRepository)
		repo.On("Exists", mock.Anything, int64(3)).Return(true, nil).Once()
		repo.On("Replace", mock.Anything, mock.AnythingOfType("*models.Book")).Return(repository.ErrBookNotFound).Once()

		_, err := service.NewBookService(repo, testutil.DiscardLogger()).Update(context.Background(), 3, in)
		assert.ErrorIs(t, err, service.ErrBookNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("update keeps created_at out of the write", func(t *testing.T) {
		fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		repo := new(MockBookRepository)
		repo.On("Exists", mock.Anything, int64(3)).Return(true, nil).Once()
		repo.On("Replace", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
			return b.ID == 3 && b.CreatedAt.IsZero() && b.UpdatedAt.Equal(fixed)
		})).Return(nil).Once()
		repo.On("GetByID", mock.Anything, int64(3)).Return(&models.Book{ID: 3, UpdatedAt: fixed}, nil).Once()

		svc := service.NewBookService(repo, testutil.DiscardLogger(), service.WithClock(func() time.Time { return fixed }))
		_, err := svc.Update(context.Background(), 3, in)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
