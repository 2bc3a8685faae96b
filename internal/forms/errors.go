package forms

// NonFieldErrors is the key under which errors that belong to the whole form
// rather than a single field are stored.
const NonFieldErrors = "__all__"

// FieldErrors maps a field name to its user-facing error messages.
type FieldErrors map[string][]string

// Add appends a message to the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the messages recorded for field.
func (e FieldErrors) Get(field string) []string {
	if e == nil {
		return nil
	}
	return e[field]
}

// Has reports whether field has at least one error.
func (e FieldErrors) Has(field string) bool {
	return len(e.Get(field)) > 0
}

// Merge copies every message of other into e.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		for _, m := range messages {
			e.Add(field, m)
		}
	}
}

// Count returns the number of fields carrying errors.
func (e FieldErrors) Count() int {
	n := 0
	for _, messages := range e {
		if len(messages) > 0 {
			n++
		}
	}
	return n
}
