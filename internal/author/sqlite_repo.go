package author

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ Repository = (*SQLiteRepo)(nil)

const sqliteDateLayout = "2006-01-02"

// SQLiteRepo implements Repository on an embedded SQLite database. The
// connection must have foreign keys enabled for the cascade on authors.
type SQLiteRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sql.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) Save(ctx context.Context, a *Author, books []BookData) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	birthDate := a.BirthDate.Format(sqliteDateLayout)
	if a.ID == 0 {
		res, err := tx.ExecContext(timeoutCtx,
			"INSERT INTO authors (first_name, last_name, birth_date) VALUES (?, ?, ?)",
			a.FirstName, a.LastName, birthDate,
		)
		if err != nil {
			return fmt.Errorf("insert author: %w", err)
		}
		if a.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert author: %w", err)
		}
	} else {
		res, err := tx.ExecContext(timeoutCtx,
			"UPDATE authors SET first_name = ?, last_name = ?, birth_date = ? WHERE id = ?",
			a.FirstName, a.LastName, birthDate, a.ID,
		)
		if err != nil {
			return fmt.Errorf("update author: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
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
			res, err := tx.ExecContext(timeoutCtx,
				"INSERT INTO books (author_id, title, number_of_pages, book_format) VALUES (?, ?, ?, ?)",
				a.ID, b.Title, nullString(b.NumberOfPages), nullString(string(b.Format)),
			)
			if err != nil {
				return fmt.Errorf("insert book: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert book: %w", err)
			}
			a.Books = append(a.Books, Book{ID: id, AuthorID: a.ID, Title: b.Title, NumberOfPages: b.NumberOfPages, Format: b.Format})

		case b.Delete:
			res, err := tx.ExecContext(timeoutCtx,
				"DELETE FROM books WHERE id = ? AND author_id = ?", *b.ID, a.ID,
			)
			if err != nil {
				return fmt.Errorf("delete book: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return ErrBookNotFound
			}

		default:
			res, err := tx.ExecContext(timeoutCtx,
				"UPDATE books SET title = ?, number_of_pages = ?, book_format = ? WHERE id = ? AND author_id = ?",
				b.Title, nullString(b.NumberOfPages), nullString(string(b.Format)), *b.ID, a.ID,
			)
			if err != nil {
				return fmt.Errorf("update book: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return ErrBookNotFound
			}
			a.Books = append(a.Books, Book{ID: *b.ID, AuthorID: a.ID, Title: b.Title, NumberOfPages: b.NumberOfPages, Format: b.Format})
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) GetAuthor(ctx context.Context, id int64) (Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		a         Author
		birthDate string
	)
	err := r.db.QueryRowContext(timeoutCtx,
		"SELECT id, first_name, last_name, birth_date FROM authors WHERE id = ?", id,
	).Scan(&a.ID, &a.FirstName, &a.LastName, &birthDate)
	if errors.Is(err, sql.ErrNoRows) {
		return Author{}, ErrNotFound
	}
	if err != nil {
		return Author{}, err
	}
	if a.BirthDate, err = time.Parse(sqliteDateLayout, birthDate); err != nil {
		return Author{}, fmt.Errorf("parse birth_date: %w", err)
	}

	rows, err := r.db.QueryContext(timeoutCtx,
		"SELECT id, author_id, title, number_of_pages, book_format FROM books WHERE author_id = ? ORDER BY id", id,
	)
	if err != nil {
		return Author{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b             Book
			numberOfPages sql.NullString
			format        sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Title, &numberOfPages, &format); err != nil {
			return Author{}, err
		}
		b.NumberOfPages = numberOfPages.String
		b.Format = BookFormat(format.String)
		a.Books = append(a.Books, b)
	}
	return a, rows.Err()
}

func (r *SQLiteRepo) DeleteAuthor(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(timeoutCtx, "DELETE FROM authors WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
