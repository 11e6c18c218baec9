package repository

import (
	"context"
	"errors"
	"fmt"

	"booktracker/internal/microservices/http-api/dto"
	"booktracker/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ErrBookNotFound is returned when no row matches the requested id.
var ErrBookNotFound = errors.New("book not found")

type BookRepository interface {
	List(ctx context.Context, filters dto.BookFilters) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, b *models.Book) error
	Replace(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List returns books matching every non-empty filter, newest first.
// Author and search matches are case-sensitive substrings.
func (r *bookRepository) List(ctx context.Context, filters dto.BookFilters) ([]models.Book, error) {
	q := r.db.WithContext(ctx).Model(&models.Book{})

	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Author != "" {
		q = q.Where(r.containsClause("author"), filters.Author)
	}
	if filters.Search != "" {
		q = q.Where("("+r.containsClause("title")+" OR "+r.containsClause("author")+")", filters.Search, filters.Search)
	}

	list := make([]models.Book, 0)
	if err := q.Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return list, nil
}

// containsClause builds a case-sensitive substring test. LIKE is avoided
// because SQLite folds ASCII case and both engines treat % and _ as wildcards.
func (r *bookRepository) containsClause(column string) string {
	if r.db.Dialector.Name() == "postgres" {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &b, nil
}

func (r *bookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check book %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM populates b.ID
	return nil
}

// Replace writes every mutable column of b, including NULL for absent
// optionals. CreatedAt is never touched.
func (r *bookRepository) Replace(ctx context.Context, b *models.Book) error {
	res := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":      b.Title,
		"author":     b.Author,
		"status":     b.Status,
		"rating":     b.Rating,
		"notes":      b.Notes,
		"updated_at": b.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update book %d: %w", b.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete book %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
