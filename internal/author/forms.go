package author

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"dsfrexample/internal/forms"
)

// Author form fields.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldBirthDate = "birth_date"
)

// Book row fields.
const (
	FieldTitle         = "title"
	FieldNumberOfPages = "number_of_pages"
	FieldBookFormat    = "book_format"
)

// BookPrefix namespaces the book formset inputs.
const BookPrefix = "book_set"

// AuthorFields and BookFields list the inputs in display order.
var (
	AuthorFields = []string{FieldFirstName, FieldLastName, FieldBirthDate}
	BookFields   = []string{FieldTitle, FieldNumberOfPages, FieldBookFormat}
)

// AuthorData is a validated author submission.
type AuthorData struct {
	FirstName string
	LastName  string
	BirthDate time.Time
}

// BookData is a validated book row. ID is nil for a new book; Delete marks
// an existing book for removal.
type BookData struct {
	ID            *int64
	Title         string
	NumberOfPages string
	Format        BookFormat
	Delete        bool
}

type authorInput struct {
	FirstName string `form:"first_name" validate:"required,max=250"`
	LastName  string `form:"last_name" validate:"required,max=250"`
	BirthDate string `form:"birth_date" validate:"required,date"`
}

type bookInput struct {
	Title         string `form:"title" validate:"required,max=250"`
	NumberOfPages string `form:"number_of_pages" validate:"omitempty,max=6,number"`
	BookFormat    string `form:"book_format" validate:"omitempty,oneof=PAPER DIGITAL"`
}

// ValidateAuthor validates the raw author fields. The returned errors are
// nil when the data is valid.
func ValidateAuthor(raw url.Values) (AuthorData, forms.FieldErrors) {
	in := authorInput{
		FirstName: strings.TrimSpace(raw.Get(FieldFirstName)),
		LastName:  strings.TrimSpace(raw.Get(FieldLastName)),
		BirthDate: strings.TrimSpace(raw.Get(FieldBirthDate)),
	}
	if errs := forms.Validate(in); len(errs) > 0 {
		return AuthorData{}, errs
	}

	birthDate, err := forms.ParseDate(in.BirthDate)
	if err != nil {
		return AuthorData{}, forms.FieldErrors{FieldBirthDate: {"Enter a valid date."}}
	}
	return AuthorData{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDate: birthDate,
	}, nil
}

func validateBookRow(row *forms.Row) forms.FieldErrors {
	return forms.Validate(bookInput{
		Title:         strings.TrimSpace(row.Value(FieldTitle)),
		NumberOfPages: strings.TrimSpace(row.Value(FieldNumberOfPages)),
		BookFormat:    strings.TrimSpace(row.Value(FieldBookFormat)),
	})
}

// BookFormsetConfig returns the formset shape for book rows.
func BookFormsetConfig(extra, minNum, maxNum int) forms.Config {
	return forms.Config{
		Prefix:      BookPrefix,
		Fields:      BookFields,
		Extra:       extra,
		MinNum:      minNum,
		MaxNum:      maxNum,
		ValidateMin: minNum > 0,
		ValidateMax: true,
		CanDelete:   true,
	}
}

// NewBookFormset builds the unbound formset for the given persisted books.
func NewBookFormset(cfg forms.Config, existing []Book) *forms.Formset {
	return forms.New(cfg, bookInitials(existing))
}

// BindBookFormset reads the book rows of a submission.
func BindBookFormset(cfg forms.Config, existing []Book, data url.Values) *forms.Formset {
	return forms.Bind(cfg, bookInitials(existing), data)
}

// ValidateBooks validates the rows of a bound formset. Empty extra rows are
// skipped. On success it returns the changes to apply in row order and a nil
// error slice; otherwise it returns the errors of every row (empty for valid
// rows). Formset-level errors are left in fs.NonFormErrors.
func ValidateBooks(fs *forms.Formset) ([]BookData, []forms.FieldErrors) {
	if !fs.Clean(validateBookRow) {
		return nil, fs.RowErrors()
	}

	var out []BookData
	for _, row := range fs.Rows {
		switch row.State {
		case forms.RowPersist:
			out = append(out, bookData(row, nil))
		case forms.RowUpdate, forms.RowDelete:
			id, err := strconv.ParseInt(row.ID, 10, 64)
			if err != nil {
				// Bind only accepts identities of persisted books.
				continue
			}
			d := bookData(row, &id)
			d.Delete = row.State == forms.RowDelete
			out = append(out, d)
		}
	}
	return out, nil
}

func bookData(row *forms.Row, id *int64) BookData {
	return BookData{
		ID:            id,
		Title:         strings.TrimSpace(row.Value(FieldTitle)),
		NumberOfPages: strings.TrimSpace(row.Value(FieldNumberOfPages)),
		Format:        BookFormat(strings.TrimSpace(row.Value(FieldBookFormat))),
	}
}

func bookInitials(books []Book) []forms.Initial {
	out := make([]forms.Initial, 0, len(books))
	for _, b := range books {
		out = append(out, forms.Initial{
			ID: strconv.FormatInt(b.ID, 10),
			Values: map[string]string{
				FieldTitle:         b.Title,
				FieldNumberOfPages: b.NumberOfPages,
				FieldBookFormat:    string(b.Format),
			},
		})
	}
	return out
}
