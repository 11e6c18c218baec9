package dto

import (
	"time"

	"booktracker/internal/microservices/http-api/models"
)

// BookResponse is the wire shape of a book. Absent optionals are omitted.
type BookResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Status    string    `json:"status"`
	Rating    *int      `json:"rating,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookFilters used for GET /api/books. Empty fields do not filter.
type BookFilters struct {
	Status string // exact match
	Author string // substring of author
	Search string // substring of title or author
}

func FromModel(b models.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Status:    string(b.Status),
		Rating:    b.Rating,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
	}
}

func FromModels(list []models.Book) []BookResponse {
	resp := make([]BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, FromModel(b))
	}
	return resp
}

// ToModel copies the validated input onto a new row without id or timestamps.
func (in BookInput) ToModel() models.Book {
	return models.Book{
		Title:  in.Title,
		Author: in.Author,
		Status: models.BookStatus(in.Status),
		Rating: in.Rating,
		Notes:  in.Notes,
	}
}
