package forms

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestFormsetProperties checks row-count and blank-row invariants
func TestFormsetProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	cfg := Config{
		Prefix:      "book_set",
		Fields:      []string{"title", "pages"},
		MaxNum:      5,
		ValidateMax: true,
		CanDelete:   true,
	}

	// Property: blank extra rows are never validated nor persisted
	properties.Property("blank rows are discarded", prop.ForAll(
		func(filled []bool) bool {
			data := url.Values{
				"book_set-TOTAL_FORMS":   {strconv.Itoa(len(filled))},
				"book_set-INITIAL_FORMS": {"0"},
			}
			for i, f := range filled {
				if f {
					data.Set("book_set-"+strconv.Itoa(i)+"-title", "Book "+strconv.Itoa(i))
				}
			}

			fs := Bind(cfg, nil, data)
			if !fs.Clean(requireTitle) {
				return false
			}
			for i, row := range fs.Rows {
				want := RowDiscarded
				if filled[i] {
					want = RowPersist
				}
				if row.State != want || len(row.Errors) > 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(5, gen.Bool()),
	))

	// Property: more kept rows than MaxNum yield exactly one formset error
	properties.Property("too many rows", prop.ForAll(
		func(total int) bool {
			data := url.Values{
				"book_set-TOTAL_FORMS":   {strconv.Itoa(total)},
				"book_set-INITIAL_FORMS": {"0"},
			}
			fs := Bind(cfg, nil, data)
			valid := fs.Clean(requireTitle)

			if total <= cfg.MaxNum {
				return valid && len(fs.NonFormErrors) == 0
			}
			return !valid && len(fs.NonFormErrors) == 1 &&
				fs.NonFormErrors[0] == "Please submit at most 5 forms."
		},
		gen.IntRange(0, 2000),
	))

	// Property: the rows read never exceed AbsoluteMax
	properties.Property("rows bounded by absolute max", prop.ForAll(
		func(total int) bool {
			data := url.Values{
				"book_set-TOTAL_FORMS":   {strconv.Itoa(total)},
				"book_set-INITIAL_FORMS": {strconv.Itoa(total)},
			}
			fs := Bind(cfg, nil, data)
			return len(fs.Rows) <= cfg.MaxNum+DefaultMaxNum
		},
		gen.IntRange(0, 5000),
	))

	properties.TestingRun(t)
}
