package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Management form field names, suffixed to the formset prefix.
const (
	TotalFormsField   = "TOTAL_FORMS"
	InitialFormsField = "INITIAL_FORMS"
	MinNumFormsField  = "MIN_NUM_FORMS"
	MaxNumFormsField  = "MAX_NUM_FORMS"

	// IDField carries the persisted identity of an existing row.
	IDField = "id"
	// DeleteField is the per-row deletion checkbox.
	DeleteField = "DELETE"

	// DefaultMaxNum is the row limit used when Config.MaxNum is not set.
	// It is also the headroom added on top of MaxNum for AbsoluteMax.
	DefaultMaxNum = 1000
)

// ErrManagementForm is reported when the bookkeeping fields are missing or
// not integers.
const ErrManagementForm = "ManagementForm data is missing or has been tampered with."

const errInvalidID = "Select a valid choice. That choice is not one of the available choices."

// Config describes the shape of a formset.
type Config struct {
	// Prefix namespaces every field of the formset, e.g. "book_set".
	Prefix string
	// Fields are the data fields of a row, in display order.
	Fields []string
	// Extra is the number of blank rows appended after existing rows.
	Extra int
	// MinNum and MaxNum bound the number of kept rows when ValidateMin and
	// ValidateMax are set.
	MinNum      int
	MaxNum      int
	ValidateMin bool
	ValidateMax bool
	// AbsoluteMax caps how many rows are ever read from a submission.
	AbsoluteMax int
	CanDelete   bool
}

func (c Config) withDefaults() Config {
	if c.MaxNum <= 0 {
		c.MaxNum = DefaultMaxNum
	}
	if c.AbsoluteMax <= 0 {
		c.AbsoluteMax = c.MaxNum + DefaultMaxNum
	}
	if c.AbsoluteMax < c.MaxNum {
		c.AbsoluteMax = c.MaxNum
	}
	if c.Extra < 0 {
		c.Extra = 0
	}
	if c.MinNum < 0 {
		c.MinNum = 0
	}
	return c
}

// ManagementForm holds the bookkeeping counts exchanged with the client.
type ManagementForm struct {
	TotalForms   int
	InitialForms int
	MinNumForms  int
	MaxNumForms  int
}

// Hidden is a hidden input.
type Hidden struct {
	Name  string
	Value string
}

// Initial is a persisted child used to seed an existing row.
type Initial struct {
	ID     string
	Values map[string]string
}

// RowState tracks where a row is in its lifecycle.
type RowState int

const (
	// RowUnbound is a fresh extra row that has not been validated.
	RowUnbound RowState = iota
	// RowBound is an existing row that has not been validated.
	RowBound
	// RowInvalid failed validation.
	RowInvalid
	// RowDiscarded is an empty extra row, or an extra row marked for deletion.
	RowDiscarded
	// RowValidated is an existing row that passed validation without changes.
	RowValidated
	// RowPersist is a validated extra row that must be created.
	RowPersist
	// RowUpdate is a validated existing row whose values changed.
	RowUpdate
	// RowDelete is an existing row marked for deletion.
	RowDelete
)

func (s RowState) String() string {
	switch s {
	case RowUnbound:
		return "unbound"
	case RowBound:
		return "bound"
	case RowInvalid:
		return "invalid"
	case RowDiscarded:
		return "discarded"
	case RowValidated:
		return "validated"
	case RowPersist:
		return "persist"
	case RowUpdate:
		return "update"
	case RowDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Row is one sub-form of a formset.
type Row struct {
	Index int
	// ID is the persisted identity; empty for extra rows.
	ID string
	// Initial holds persisted values; nil for extra rows.
	Initial map[string]string
	// Values holds the raw submitted values, or the initial ones when unbound.
	Values map[string]string
	Delete bool
	State  RowState
	Errors FieldErrors
}

// Extra reports whether the row has no persisted identity.
func (r *Row) Extra() bool {
	return r.Initial == nil
}

// Value returns the raw value of field.
func (r *Row) Value(field string) string {
	return r.Values[field]
}

// Changed reports whether any submitted value differs from the initial one.
// For extra rows it reports whether anything was filled in at all.
func (r *Row) Changed() bool {
	for field, v := range r.Values {
		if strings.TrimSpace(v) != strings.TrimSpace(r.Initial[field]) {
			return true
		}
	}
	return false
}

// Formset is a bounded collection of structurally identical rows.
type Formset struct {
	Config        Config
	Management    ManagementForm
	Rows          []*Row
	NonFormErrors []string
	Bound         bool
	cleaned       bool
}

// New builds an unbound formset: one row per initial child, then Config.Extra
// blank rows, never more than MaxNum rows unless the existing children
// already exceed it.
func New(cfg Config, initial []Initial) *Formset {
	cfg = cfg.withDefaults()
	fs := &Formset{Config: cfg}

	total := max(len(initial), cfg.MinNum) + cfg.Extra
	switch {
	case len(initial) > cfg.MaxNum:
		total = len(initial)
	case total > cfg.MaxNum:
		total = cfg.MaxNum
	}

	for i := 0; i < total; i++ {
		row := &Row{Index: i, Values: map[string]string{}, Errors: FieldErrors{}}
		if i < len(initial) {
			row.ID = initial[i].ID
			row.Initial = copyValues(cfg.Fields, initial[i].Values)
			row.Values = copyValues(cfg.Fields, initial[i].Values)
			row.State = RowBound
		} else {
			for _, f := range cfg.Fields {
				row.Values[f] = ""
			}
		}
		fs.Rows = append(fs.Rows, row)
	}

	fs.Management = ManagementForm{
		TotalForms:   total,
		InitialForms: min(len(initial), total),
		MinNumForms:  cfg.MinNum,
		MaxNumForms:  cfg.MaxNum,
	}
	return fs
}

// Bind reads a submission. Rows with an index below INITIAL_FORMS must carry
// the identity of one of the initial children.
func Bind(cfg Config, initial []Initial, data url.Values) *Formset {
	cfg = cfg.withDefaults()
	fs := &Formset{Config: cfg, Bound: true}

	mgmt, ok := fs.parseManagement(data)
	if !ok {
		fs.NonFormErrors = append(fs.NonFormErrors, ErrManagementForm)
		fs.Management = ManagementForm{MinNumForms: cfg.MinNum, MaxNumForms: cfg.MaxNum}
		return fs
	}
	fs.Management = mgmt

	byID := make(map[string]Initial, len(initial))
	for _, in := range initial {
		byID[in.ID] = in
	}

	total := min(mgmt.TotalForms, cfg.AbsoluteMax)
	for i := 0; i < total; i++ {
		row := &Row{Index: i, Values: map[string]string{}, Errors: FieldErrors{}, State: RowUnbound}
		for _, f := range cfg.Fields {
			row.Values[f] = data.Get(fs.FieldName(i, f))
		}
		if cfg.CanDelete {
			row.Delete = checked(data.Get(fs.FieldName(i, DeleteField)))
		}
		if i < mgmt.InitialForms {
			row.ID = strings.TrimSpace(data.Get(fs.FieldName(i, IDField)))
			row.State = RowBound
			if in, ok := byID[row.ID]; ok && row.ID != "" {
				row.Initial = copyValues(cfg.Fields, in.Values)
			} else {
				row.Initial = map[string]string{}
				row.Errors.Add(IDField, errInvalidID)
			}
		}
		fs.Rows = append(fs.Rows, row)
	}
	return fs
}

func (fs *Formset) parseManagement(data url.Values) (ManagementForm, bool) {
	total, err := strconv.Atoi(strings.TrimSpace(data.Get(fs.ManagementFieldName(TotalFormsField))))
	if err != nil || total < 0 {
		return ManagementForm{}, false
	}
	initial, err := strconv.Atoi(strings.TrimSpace(data.Get(fs.ManagementFieldName(InitialFormsField))))
	if err != nil || initial < 0 {
		return ManagementForm{}, false
	}
	return ManagementForm{
		TotalForms:   total,
		InitialForms: min(initial, total),
		MinNumForms:  fs.Config.MinNum,
		MaxNumForms:  fs.Config.MaxNum,
	}, true
}

// Clean validates every row with cleanRow and applies the row-count limits.
// Empty extra rows and deleted rows are never passed to cleanRow. When the
// submission holds more rows than MaxNum the formset gets a single error and
// no row is validated. Clean reports whether the formset is valid.
func (fs *Formset) Clean(cleanRow func(row *Row) FieldErrors) bool {
	if !fs.Bound || fs.cleaned {
		return fs.Valid()
	}
	fs.cleaned = true
	if len(fs.NonFormErrors) > 0 {
		return false
	}

	deleted := 0
	for _, row := range fs.Rows {
		if fs.Config.CanDelete && row.Delete {
			deleted++
		}
	}
	tooMany := fs.Management.TotalForms > fs.Config.AbsoluteMax ||
		(fs.Config.ValidateMax && len(fs.Rows)-deleted > fs.Config.MaxNum)
	if tooMany {
		fs.NonFormErrors = append(fs.NonFormErrors, tooManyForms(fs.Config.MaxNum))
		return false
	}

	kept := 0
	for _, row := range fs.Rows {
		switch {
		case fs.Config.CanDelete && row.Delete:
			if row.Extra() {
				row.State = RowDiscarded
			} else if len(row.Errors) == 0 {
				row.State = RowDelete
			} else {
				row.State = RowInvalid
			}
			continue
		case row.Extra() && !row.Changed():
			row.State = RowDiscarded
			continue
		}

		kept++
		if errs := cleanRow(row); len(errs) > 0 {
			row.Errors.Merge(errs)
		}
		switch {
		case len(row.Errors) > 0:
			row.State = RowInvalid
		case row.Extra():
			row.State = RowPersist
		case row.Changed():
			row.State = RowUpdate
		default:
			row.State = RowValidated
		}
	}

	if fs.Config.ValidateMin && kept < fs.Config.MinNum {
		fs.NonFormErrors = append(fs.NonFormErrors, tooFewForms(fs.Config.MinNum))
	}
	return fs.Valid()
}

// Valid reports whether the bound formset has no formset-level and no row
// errors.
func (fs *Formset) Valid() bool {
	if !fs.Bound || len(fs.NonFormErrors) > 0 {
		return false
	}
	for _, row := range fs.Rows {
		if row.State == RowInvalid || len(row.Errors) > 0 {
			return false
		}
	}
	return true
}

// RowErrors returns the errors of every row, in row order.
func (fs *Formset) RowErrors() []FieldErrors {
	out := make([]FieldErrors, len(fs.Rows))
	for i, row := range fs.Rows {
		out[i] = row.Errors
	}
	return out
}

// FieldName returns the input name of field in row index.
func (fs *Formset) FieldName(index int, field string) string {
	return fmt.Sprintf("%s-%d-%s", fs.Config.Prefix, index, field)
}

// ManagementFieldName returns the input name of a bookkeeping field.
func (fs *Formset) ManagementFieldName(field string) string {
	return fs.Config.Prefix + "-" + field
}

// ManagementValues returns the bookkeeping fields to render as hidden inputs.
func (fs *Formset) ManagementValues() []Hidden {
	return []Hidden{
		{fs.ManagementFieldName(TotalFormsField), strconv.Itoa(fs.Management.TotalForms)},
		{fs.ManagementFieldName(InitialFormsField), strconv.Itoa(fs.Management.InitialForms)},
		{fs.ManagementFieldName(MinNumFormsField), strconv.Itoa(fs.Management.MinNumForms)},
		{fs.ManagementFieldName(MaxNumFormsField), strconv.Itoa(fs.Management.MaxNumForms)},
	}
}

func tooManyForms(n int) string {
	if n == 1 {
		return "Please submit at most 1 form."
	}
	return fmt.Sprintf("Please submit at most %d forms.", n)
}

func tooFewForms(n int) string {
	if n == 1 {
		return "Please submit at least 1 form."
	}
	return fmt.Sprintf("Please submit at least %d forms.", n)
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "off":
		return false
	}
	return true
}

func copyValues(fields []string, values map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = values[f]
	}
	return out
}
