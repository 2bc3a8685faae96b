package author

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=author

// Repository defines the contract for author and book storage.
type Repository interface {
	// Save inserts the author when a.ID is zero and updates it otherwise, then
	// applies every book change, all in one transaction. Assigned IDs are
	// written back to a and a.Books holds the created and updated books.
	Save(ctx context.Context, a *Author, books []BookData) error
	// GetAuthor returns the author with its books ordered by id.
	GetAuthor(ctx context.Context, id int64) (Author, error)
	// DeleteAuthor removes the author and, through the foreign key, its books.
	DeleteAuthor(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
