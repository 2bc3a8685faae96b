// Package testutil builds form submissions for handler tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
)

// BookPrefix mirrors author.BookPrefix so author tests can import testutil.
const BookPrefix = "book_set"

// NewFormRequest creates a form-encoded HTTP request for testing.
func NewFormRequest(method, path string, form url.Values) *http.Request {
	r := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// ManagementForm returns the bookkeeping fields of the book formset.
func ManagementForm(total, initial int) url.Values {
	return url.Values{
		BookPrefix + "-TOTAL_FORMS":   {strconv.Itoa(total)},
		BookPrefix + "-INITIAL_FORMS": {strconv.Itoa(initial)},
		BookPrefix + "-MIN_NUM_FORMS": {"0"},
		BookPrefix + "-MAX_NUM_FORMS": {"1000"},
	}
}

// SetBookRow fills row i of the book formset in form.
func SetBookRow(form url.Values, i int, fields map[string]string) {
	for name, value := range fields {
		form.Set(BookPrefix+"-"+strconv.Itoa(i)+"-"+name, value)
	}
}

// VictorHugoForm is a valid submission: one author and one book.
func VictorHugoForm() url.Values {
	form := url.Values{
		"first_name": {"Victor"},
		"last_name":  {"Hugo"},
		"birth_date": {"1802-02-26"},
	}
	Merge(form, ManagementForm(1, 0))
	SetBookRow(form, 0, map[string]string{
		"title":           "Les Misérables",
		"number_of_pages": "1900",
		"book_format":     "PAPER",
	})
	return form
}

// Merge copies every key of src into dst and returns dst.
func Merge(dst url.Values, src url.Values) url.Values {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
