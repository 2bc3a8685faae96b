package author

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func hugo() Author {
	return Author{
		FirstName: "Victor",
		LastName:  "Hugo",
		BirthDate: time.Date(1802, time.February, 26, 0, 0, 0, 0, time.UTC),
	}
}

// runRepositorySuite checks the behaviour every Repository implementation
// must share.
func runRepositorySuite(t *testing.T, repo Repository) {
	ctx := context.Background()

	t.Run("create with books", func(t *testing.T) {
		a := hugo()
		err := repo.Save(ctx, &a, []BookData{
			{Title: "Les Misérables", NumberOfPages: "1900", Format: FormatPaper},
			{Title: "Notre-Dame de Paris"},
		})
		require.NoError(t, err)
		require.NotZero(t, a.ID)
		require.Len(t, a.Books, 2)

		got, err := repo.GetAuthor(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Victor", got.FirstName)
		assert.True(t, a.BirthDate.Equal(got.BirthDate))
		require.Len(t, got.Books, 2)
		for _, b := range got.Books {
			assert.Equal(t, a.ID, b.AuthorID)
		}
		assert.Equal(t, "1900", got.Books[0].NumberOfPages)
		assert.Equal(t, FormatPaper, got.Books[0].Format)
		assert.Empty(t, got.Books[1].NumberOfPages)
		assert.Empty(t, got.Books[1].Format)
	})

	t.Run("create without books", func(t *testing.T) {
		a := hugo()
		require.NoError(t, repo.Save(ctx, &a, nil))

		got, err := repo.GetAuthor(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Books)
	})

	t.Run("update and delete books", func(t *testing.T) {
		a := hugo()
		require.NoError(t, repo.Save(ctx, &a, []BookData{{Title: "Germinal"}, {Title: "Nana"}}))
		first, second := a.Books[0].ID, a.Books[1].ID

		a.LastName = "Hugo (updated)"
		err := repo.Save(ctx, &a, []BookData{
			{ID: int64Ptr(first), Title: "Germinal", NumberOfPages: "592", Format: FormatDigital},
			{ID: int64Ptr(second), Title: "Nana", Delete: true},
			{Title: "L'Assommoir"},
		})
		require.NoError(t, err)

		got, err := repo.GetAuthor(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hugo (updated)", got.LastName)
		require.Len(t, got.Books, 2)
		assert.Equal(t, first, got.Books[0].ID)
		assert.Equal(t, "592", got.Books[0].NumberOfPages)
		assert.Equal(t, FormatDigital, got.Books[0].Format)
		assert.Equal(t, "L'Assommoir", got.Books[1].Title)
	})

	t.Run("foreign book rolls back", func(t *testing.T) {
		other := hugo()
		require.NoError(t, repo.Save(ctx, &other, []BookData{{Title: "Les Contemplations"}}))

		a := hugo()
		require.NoError(t, repo.Save(ctx, &a, nil))

		a.FirstName = "Changed"
		err := repo.Save(ctx, &a, []BookData{
			{Title: "Inserted then rolled back"},
			{ID: int64Ptr(other.Books[0].ID), Title: "Stolen"},
		})
		assert.ErrorIs(t, err, ErrBookNotFound)

		got, err := repo.GetAuthor(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Victor", got.FirstName)
		assert.Empty(t, got.Books)

		owner, err := repo.GetAuthor(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "Les Contemplations", owner.Books[0].Title)
	})

	t.Run("update missing author", func(t *testing.T) {
		a := hugo()
		a.ID = 1 << 40
		assert.ErrorIs(t, repo.Save(ctx, &a, nil), ErrNotFound)
	})

	t.Run("delete cascades", func(t *testing.T) {
		a := hugo()
		require.NoError(t, repo.Save(ctx, &a, []BookData{{Title: "Hernani"}}))

		require.NoError(t, repo.DeleteAuthor(ctx, a.ID))
		_, err := repo.GetAuthor(ctx, a.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.DeleteAuthor(ctx, a.ID), ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
