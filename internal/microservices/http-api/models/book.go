package models

import "time"

type BookStatus string

const (
	StatusToRead    BookStatus = "to-read"
	StatusReading   BookStatus = "reading"
	StatusCompleted BookStatus = "completed"
)

// BookStatuses lists the accepted statuses in display order.
var BookStatuses = []BookStatus{StatusToRead, StatusReading, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s BookStatus) Valid() bool {
	for _, known := range BookStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Book is the persisted row. Rating and Notes are nullable columns.
type Book struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	Title     string     `gorm:"not null"`
	Author    string     `gorm:"not null"`
	Status    BookStatus `gorm:"not null;check:status IN ('to-read', 'reading', 'completed')"`
	Rating    *int       `gorm:"check:rating >= 1 AND rating <= 10"`
	Notes     *string
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_books_created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

func (Book) TableName() string {
	return "books"
}
