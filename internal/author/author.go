package author

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an author is not found.
	ErrNotFound = errors.New("author not found")
	// ErrBookNotFound is returned when a book to update or delete does not
	// belong to the author.
	ErrBookNotFound = errors.New("book not found")
)

// BookFormat is the physical format of a book.
type BookFormat string

const (
	FormatPaper   BookFormat = "PAPER"
	FormatDigital BookFormat = "DIGITAL"
)

// FormatChoice describes one radio option of the format field.
type FormatChoice struct {
	Value    BookFormat
	Label    string
	HelpText string
}

// FormatChoices lists the accepted formats in display order.
var FormatChoices = []FormatChoice{
	{Value: FormatPaper, Label: "Papier"},
	{Value: FormatDigital, Label: "Numérique", HelpText: "Livre électronique"},
}

// Valid reports whether f is one of FormatChoices.
func (f BookFormat) Valid() bool {
	for _, c := range FormatChoices {
		if c.Value == f {
			return true
		}
	}
	return false
}

// Author represents an author entity.
type Author struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate time.Time `json:"birth_date"`
	Books     []Book    `json:"books,omitempty"`
}

// Book represents a book owned by an author. NumberOfPages and Format are
// empty when unset.
type Book struct {
	ID            int64      `json:"id"`
	AuthorID      int64      `json:"author_id"`
	Title         string     `json:"title"`
	NumberOfPages string     `json:"number_of_pages,omitempty"`
	Format        BookFormat `json:"book_format,omitempty"`
}
