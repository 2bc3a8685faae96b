package author

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsfrexample/internal/platform/render"
	"dsfrexample/internal/testutil"
)

type fakeRecorder struct {
	outcomes []string
}

func (f *fakeRecorder) RecordSubmission(outcome string) {
	f.outcomes = append(f.outcomes, outcome)
}

func newTestHandler(t *testing.T, repo Repository, rec Recorder) *HTTPHandler {
	t.Helper()
	renderer, err := render.New()
	require.NoError(t, err)
	return NewHTTPHandler(NewService(repo), renderer, BookFormsetConfig(1, 0, 1000),
		WithRootDir("/django-dsfr"),
		WithRecorder(rec),
	)
}

func countRows(t *testing.T, repo *SQLiteRepo, table string) int {
	t.Helper()
	var n int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestHTTPHandler_Show(t *testing.T) {
	handler := newTestHandler(t, setupSQLiteRepo(t), nil)

	w := httptest.NewRecorder()
	handler.Show(w, httptest.NewRequest(http.MethodGet, "/forms/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<h1>Formulaire</h1>")
	assert.Contains(t, body, `href="#content">Contenu</a>`)
	assert.Contains(t, body, `name="first_name"`)
	assert.Contains(t, body, `type="date" id="id_birth_date"`)
	assert.Contains(t, body, `name="book_set-TOTAL_FORMS" value="1"`)
	assert.Contains(t, body, `name="book_set-INITIAL_FORMS" value="0"`)
	assert.Contains(t, body, `name="book_set-0-title"`)
	assert.Contains(t, body, `name="book_set-0-book_format" value="DIGITAL"`)
	assert.Contains(t, body, "Livre électronique")
	assert.Contains(t, body, "Soumettre")
	assert.NotContains(t, body, "book_set-0-DELETE")
}

func TestHTTPHandler_Submit(t *testing.T) {
	t.Run("author with one book", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		rec := &fakeRecorder{}
		handler := newTestHandler(t, repo, rec)

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", testutil.VictorHugoForm()))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Success", w.Body.String())
		assert.Equal(t, 1, countRows(t, repo, "authors"))
		assert.Equal(t, 1, countRows(t, repo, "books"))
		assert.Equal(t, []string{OutcomeCreated}, rec.outcomes)

		var title string
		require.NoError(t, repo.db.QueryRow(
			"SELECT b.title FROM books b JOIN authors a ON a.id = b.author_id WHERE a.last_name = 'Hugo'",
		).Scan(&title))
		assert.Equal(t, "Les Misérables", title)
	})

	t.Run("empty book row is ignored", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		handler := newTestHandler(t, repo, nil)

		form := testutil.VictorHugoForm()
		testutil.SetBookRow(form, 0, map[string]string{"title": "", "number_of_pages": "", "book_format": ""})

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", form))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Success", w.Body.String())
		assert.Equal(t, 1, countRows(t, repo, "authors"))
		assert.Equal(t, 0, countRows(t, repo, "books"))
	})

	t.Run("several books", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		handler := newTestHandler(t, repo, nil)

		form := testutil.VictorHugoForm()
		form.Set("book_set-TOTAL_FORMS", "4")
		testutil.SetBookRow(form, 1, map[string]string{"title": "Notre-Dame de Paris", "book_format": "DIGITAL"})
		testutil.SetBookRow(form, 3, map[string]string{"title": "Les Contemplations"})

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", form))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, countRows(t, repo, "books"))
	})

	t.Run("missing birth date", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		rec := &fakeRecorder{}
		handler := newTestHandler(t, repo, rec)

		form := testutil.VictorHugoForm()
		form.Del("birth_date")

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", form))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `name="first_name" value="Victor"`)
		assert.Contains(t, body, `name="last_name" value="Hugo"`)
		assert.Contains(t, body, `id="id_birth_date" name="birth_date" value="" required>`+"\n  "+`<p class="fr-error-text">This field is required.</p>`)
		assert.Equal(t, 1, strings.Count(body, "fr-error-text"))
		assert.Equal(t, 0, countRows(t, repo, "authors"))
		assert.Equal(t, []string{OutcomeInvalid}, rec.outcomes)
	})

	t.Run("invalid submission echoes every value", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		handler := newTestHandler(t, repo, nil)

		form := testutil.VictorHugoForm()
		form.Set("last_name", "")
		testutil.SetBookRow(form, 0, map[string]string{"title": "Germinal", "number_of_pages": "abc", "book_format": "DIGITAL"})

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", form))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `name="first_name" value="Victor"`)
		assert.Contains(t, body, `name="birth_date" value="1802-02-26"`)
		assert.Contains(t, body, `name="book_set-0-title" value="Germinal"`)
		assert.Contains(t, body, `name="book_set-0-number_of_pages" value="abc"`)
		assert.Contains(t, body, `value="DIGITAL" checked>`)
		assert.Contains(t, body, "Enter a whole number.")
		assert.Equal(t, 2, strings.Count(body, `<p class="fr-error-text">`))
		assert.Equal(t, 0, countRows(t, repo, "authors"))
	})

	t.Run("too many rows", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		renderer, err := render.New()
		require.NoError(t, err)
		handler := NewHTTPHandler(NewService(repo), renderer, BookFormsetConfig(1, 0, 2))

		form := testutil.VictorHugoForm()
		form.Set("book_set-TOTAL_FORMS", "3")
		testutil.SetBookRow(form, 1, map[string]string{"title": "Hernani"})
		testutil.SetBookRow(form, 2, map[string]string{"number_of_pages": "not a number"})

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", form))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Please submit at most 2 forms.")
		assert.NotContains(t, body, "fr-error-text")
		assert.Equal(t, 0, countRows(t, repo, "authors"))
	})

	t.Run("tampered management form", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		handler := newTestHandler(t, repo, nil)

		form := testutil.VictorHugoForm()
		form.Del("book_set-TOTAL_FORMS")

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", form))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ManagementForm data is missing or has been tampered with.")
		assert.Equal(t, 0, countRows(t, repo, "authors"))
	})

	t.Run("book identity on create", func(t *testing.T) {
		repo := setupSQLiteRepo(t)
		handler := newTestHandler(t, repo, nil)

		form := testutil.VictorHugoForm()
		form.Set("book_set-INITIAL_FORMS", "1")
		form.Set("book_set-0-id", "1")

		w := httptest.NewRecorder()
		handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", form))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Select a valid choice. That choice is not one of the available choices.")
		assert.Equal(t, 0, countRows(t, repo, "authors"))
	})
}

func TestHTTPHandler_SubmitStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	rec := &fakeRecorder{}
	handler := newTestHandler(t, mockRepo, rec)

	mockRepo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("constraint violation"))

	w := httptest.NewRecorder()
	handler.Submit(w, testutil.NewFormRequest(http.MethodPost, "/forms/", testutil.VictorHugoForm()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "constraint violation")
	assert.Equal(t, []string{OutcomeError}, rec.outcomes)
}

func TestHTTPHandler_SubmitBadBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	handler := newTestHandler(t, NewMockRepository(ctrl), nil)

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/forms/", strings.NewReader("%zz"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		handler.Submit(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		form := url.Values{"first_name": {strings.Repeat("x", 2048)}}
		r := testutil.NewFormRequest(http.MethodPost, "/forms/", form)
		w := httptest.NewRecorder()
		r.Body = http.MaxBytesReader(w, r.Body, 64)
		handler.Submit(w, r)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
