package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"booktracker/internal/microservices/http-api/dto"
	"booktracker/internal/microservices/http-api/models"
	"booktracker/internal/microservices/http-api/repository"
)

// ErrBookNotFound is returned by every operation that addresses a missing id.
var ErrBookNotFound = repository.ErrBookNotFound

type BookService interface {
	List(ctx context.Context, filters dto.BookFilters) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, in dto.BookInput) (*models.Book, error)
	Update(ctx context.Context, id int64, in dto.BookInput) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo   repository.BookRepository
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*bookService)

// WithClock replaces the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *bookService) { s.now = now }
}

func NewBookService(repo repository.BookRepository, logger *slog.Logger, opts ...Option) BookService {
	s := &bookService{
		repo:   repo,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookService) List(ctx context.Context, filters dto.BookFilters) ([]models.Book, error) {
	return s.repo.List(ctx, filters)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a validated input and returns the row as persisted.
func (s *bookService) Create(ctx context.Context, in dto.BookInput) (*models.Book, error) {
	in.Normalize()
	book := in.ToModel()
	now := s.now()
	book.CreatedAt = now
	book.UpdatedAt = now

	if err := s.repo.Create(ctx, &book); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("reload created book: %w", err)
	}
	s.logger.Info("book_created", "book_id", created.ID, "status", created.Status)
	return created, nil
}

// Update replaces every mutable field of an existing book; rating and notes
// missing from the input are cleared. The exists check, write and reload are
// separate statements, so a concurrent delete surfaces as ErrBookNotFound.
func (s *bookService) Update(ctx context.Context, id int64, in dto.BookInput) (*models.Book, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBookNotFound
	}

	in.Normalize()
	book := in.ToModel()
	book.ID = id
	book.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, &book); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload updated book: %w", err)
	}
	s.logger.Info("book_updated", "book_id", id, "status", updated.Status)
	return updated, nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("book_deleted", "book_id", id)
	return nil
}
