package author

import (
	"net/url"
	"strconv"

	"dsfrexample/internal/forms"
	"dsfrexample/internal/platform/render"
)

// PageTitle is the title of the author form page.
const PageTitle = "Formulaire"

// BookLegend is the legend of every book row.
const BookLegend = "Ajouter un livre"

var labels = map[string]string{
	FieldFirstName:     "Prénom",
	FieldLastName:      "Nom",
	FieldBirthDate:     "Date de naissance",
	FieldTitle:         "Titre",
	FieldNumberOfPages: "Nombre de pages",
	FieldBookFormat:    "Format",
}

var inputTypes = map[string]string{
	FieldFirstName:     "text",
	FieldLastName:      "text",
	FieldBirthDate:     "date",
	FieldTitle:         "text",
	FieldNumberOfPages: "number",
}

var requiredFields = map[string]bool{
	FieldFirstName: true,
	FieldLastName:  true,
	FieldBirthDate: true,
	FieldTitle:     true,
}

// FieldView is one input with its value and errors.
type FieldView struct {
	ID       string
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
	Errors   []string
}

// ChoiceView is one radio option.
type ChoiceView struct {
	ID       string
	Value    string
	Label    string
	HelpText string
	Checked  bool
}

// RadioView is a group of radio options.
type RadioView struct {
	Name    string
	Label   string
	Choices []ChoiceView
	Errors  []string
}

// RowView is one book row of the formset.
type RowView struct {
	Index      int
	Legend     string
	Fields     []FieldView
	Format     RadioView
	ID         *forms.Hidden
	DeleteName string
	Deleted    bool
	Errors     []string
}

// FormPage is the payload of the author form page.
type FormPage struct {
	render.Page
	CSRFFieldName  string
	CSRFToken      string
	Fields         []FieldView
	NonFieldErrors []string
	Management     []forms.Hidden
	Rows           []RowView
	FormsetErrors  []string
	Submit         render.Button
}

func newFormPage(page render.Page, values url.Values, errs forms.FieldErrors, fs *forms.Formset) FormPage {
	p := FormPage{
		Page:           page,
		NonFieldErrors: errs.Get(forms.NonFieldErrors),
		Management:     fs.ManagementValues(),
		FormsetErrors:  fs.NonFormErrors,
		Submit:         render.Button{Label: "Soumettre", Type: "submit"},
	}
	for _, name := range AuthorFields {
		p.Fields = append(p.Fields, fieldView(name, name, values.Get(name), errs.Get(name)))
	}
	for _, row := range fs.Rows {
		p.Rows = append(p.Rows, rowView(fs, row))
	}
	return p
}

func rowView(fs *forms.Formset, row *forms.Row) RowView {
	v := RowView{
		Index:  row.Index,
		Legend: BookLegend,
		Errors: row.Errors.Get(forms.IDField),
	}
	for _, name := range []string{FieldTitle, FieldNumberOfPages} {
		v.Fields = append(v.Fields, fieldView(fs.FieldName(row.Index, name), name, row.Value(name), row.Errors.Get(name)))
	}

	formatName := fs.FieldName(row.Index, FieldBookFormat)
	v.Format = RadioView{
		Name:   formatName,
		Label:  labels[FieldBookFormat],
		Errors: row.Errors.Get(FieldBookFormat),
	}
	for i, c := range FormatChoices {
		v.Format.Choices = append(v.Format.Choices, ChoiceView{
			ID:       "id_" + formatName + "_" + strconv.Itoa(i),
			Value:    string(c.Value),
			Label:    c.Label,
			HelpText: c.HelpText,
			Checked:  row.Value(FieldBookFormat) == string(c.Value),
		})
	}

	if !row.Extra() || row.ID != "" {
		v.ID = &forms.Hidden{Name: fs.FieldName(row.Index, forms.IDField), Value: row.ID}
		if fs.Config.CanDelete {
			v.DeleteName = fs.FieldName(row.Index, forms.DeleteField)
			v.Deleted = row.Delete
		}
	}
	return v
}

func fieldView(inputName, field, value string, errs []string) FieldView {
	return FieldView{
		ID:       "id_" + inputName,
		Name:     inputName,
		Label:    labels[field],
		Type:     inputTypes[field],
		Value:    value,
		Required: requiredFields[field],
		Errors:   errs,
	}
}
