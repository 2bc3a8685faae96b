package author

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = (*PostgresRepo)(nil)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Save(ctx context.Context, a *Author, books []BookData) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	if a.ID == 0 {
		const insertAuthorSQL = `
			INSERT INTO authors (first_name, last_name, birth_date)
			VALUES ($1, $2, $3)
			RETURNING id`
		if err := tx.QueryRow(timeoutCtx, insertAuthorSQL, a.FirstName, a.LastName, a.BirthDate).Scan(&a.ID); err != nil {
			return fmt.Errorf("insert author: %w", err)
		}
	} else {
		const updateAuthorSQL = `
			UPDATE authors SET first_name = $2, last_name = $3, birth_date = $4
			WHERE id = $1`
		tag, err := tx.Exec(timeoutCtx, updateAuthorSQL, a.ID, a.FirstName, a.LastName, a.BirthDate)
		if err != nil {
			return fmt.Errorf("update author: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	}

	a.Books = nil
	for _, b := range books {
		switch {
		case b.ID == nil:
			if b.Delete {
				continue
			}
			const insertBookSQL = `
				INSERT INTO books (author_id, title, number_of_pages, book_format)
				VALUES ($1, $2, $3, $4)
				RETURNING id`
			book := Book{AuthorID: a.ID, Title: b.Title, NumberOfPages: b.NumberOfPages, Format: b.Format}
			if err := tx.QueryRow(timeoutCtx, insertBookSQL,
				a.ID, b.Title, nullString(b.NumberOfPages), nullString(string(b.Format)),
			).Scan(&book.ID); err != nil {
				return fmt.Errorf("insert book: %w", err)
			}
			a.Books = append(a.Books, book)

		case b.Delete:
			const deleteBookSQL = `DELETE FROM books WHERE id = $1 AND author_id = $2`
			tag, err := tx.Exec(timeoutCtx, deleteBookSQL, *b.ID, a.ID)
			if err != nil {
				return fmt.Errorf("delete book: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return ErrBookNotFound
			}

		default:
			const updateBookSQL = `
				UPDATE books SET title = $3, number_of_pages = $4, book_format = $5
				WHERE id = $1 AND author_id = $2`
			tag, err := tx.Exec(timeoutCtx, updateBookSQL,
				*b.ID, a.ID, b.Title, nullString(b.NumberOfPages), nullString(string(b.Format)),
			)
			if err != nil {
				return fmt.Errorf("update book: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return ErrBookNotFound
			}
			a.Books = append(a.Books, Book{ID: *b.ID, AuthorID: a.ID, Title: b.Title, NumberOfPages: b.NumberOfPages, Format: b.Format})
		}
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetAuthor(ctx context.Context, id int64) (Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	const authorSQL = `
		SELECT id, first_name, last_name, birth_date
		FROM authors
		WHERE id = $1`
	var a Author
	err := r.db.QueryRow(timeoutCtx, authorSQL, id).Scan(&a.ID, &a.FirstName, &a.LastName, &a.BirthDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, err
	}

	const booksSQL = `
		SELECT id, author_id, title, number_of_pages, book_format
		FROM books
		WHERE author_id = $1
		ORDER BY id`
	rows, err := r.db.Query(timeoutCtx, booksSQL, id)
	if err != nil {
		return Author{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b             Book
			numberOfPages *string
			format        *string
		)
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Title, &numberOfPages, &format); err != nil {
			return Author{}, err
		}
		b.NumberOfPages = deref(numberOfPages)
		b.Format = BookFormat(deref(format))
		a.Books = append(a.Books, b)
	}
	return a, rows.Err()
}

func (r *PostgresRepo) DeleteAuthor(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
