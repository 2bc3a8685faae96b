package author

import (
	"context"
	"fmt"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new author together with its books.
func (s *Service) Create(ctx context.Context, data AuthorData, books []BookData) (Author, error) {
	return s.Save(ctx, nil, data, books)
}

// Save creates the author when instance is nil, otherwise it updates
// instance. Book changes are applied in the same transaction, so either
// everything is written or nothing is.
func (s *Service) Save(ctx context.Context, instance *Author, data AuthorData, books []BookData) (Author, error) {
	a := Author{
		FirstName: data.FirstName,
		LastName:  data.LastName,
		BirthDate: data.BirthDate,
	}
	if instance != nil {
		a.ID = instance.ID
	} else {
		for _, b := range books {
			if b.ID != nil {
				return Author{}, fmt.Errorf("save author: book %d: %w", *b.ID, ErrBookNotFound)
			}
		}
	}

	if err := s.repo.Save(ctx, &a, books); err != nil {
		return Author{}, fmt.Errorf("save author: %w", err)
	}
	return a, nil
}

// Get returns an author with its books.
func (s *Service) Get(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

// Delete removes an author and all of its books.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteAuthor(ctx, id)
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
