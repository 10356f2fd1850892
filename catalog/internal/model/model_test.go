package model_test

import (
	"testing"
	"time"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFieldLabels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		fields    model.Fields
		name      string
		label     string
		maxLength int
	}{
		{model.AuthorFields, "first_name", "first name", 100},
		{model.AuthorFields, "last_name", "last name", 100},
		{model.AuthorFields, "date_of_birth", "date of birth", 0},
		{model.AuthorFields, "date_of_death", "died", 0},
		{model.LanguageFields, "name", "name", 200},
		{model.GenreFields, "name", "name", 200},
		{model.BookFields, "title", "title", 200},
		{model.BookFields, "summary", "summary", 1000},
		{model.BookFields, "isbn", "ISBN", 13},
		{model.BookFields, "author", "author", 0},
		{model.BookFields, "genre", "genre", 0},
		{model.BookFields, "language", "language", 0},
		{model.BookInstanceFields, "book", "book", 0},
		{model.BookInstanceFields, "imprint", "imprint", 200},
		{model.BookInstanceFields, "due_back", "due back", 0},
		{model.BookInstanceFields, "status", "status", 1},
	}
	for _, tt := range tests {
		f, ok := tt.fields.Get(tt.name)
		require.True(t, ok, tt.name)
		require.Equal(t, tt.label, f.Label, tt.name)
		require.Equal(t, tt.maxLength, f.MaxLength, tt.name)
	}
	require.Equal(t, "unknown", model.BookFields.Label("unknown"))
}

func TestAuthor(t *testing.T) {
	t.Parallel()
	a := model.Author{ID: 1, FirstName: "Big", LastName: "Bob", DateOfBirth: date(1958, 6, 15), DateOfDeath: date(2000, 5, 5)}
	require.Equal(t, "Bob, Big", a.String())
	require.Equal(t, "/catalog/author/1", a.URL())
	require.True(t, a.DateOfDeath.After(*a.DateOfBirth))
}

func TestBook(t *testing.T) {
	t.Parallel()
	b := model.Book{ID: 1, Title: "Farm Animal"}
	require.Equal(t, "Farm Animal", b.String())
	require.Equal(t, "/catalog/book/1", b.URL())

	authorID := 3
	first, last := "Big", "Bob"
	item := model.BookItem{Book: model.Book{AuthorID: &authorID}, AuthorFirstName: &first, AuthorLastName: &last}
	require.Equal(t, "Bob, Big", item.AuthorName())
	require.Equal(t, "/catalog/author/3", item.AuthorURL())
	require.Empty(t, model.BookItem{}.AuthorName())

	detail := model.BookDetail{Genres: []model.Genre{{ID: 1, Name: "Fantasy"}, {ID: 2, Name: "Action"}}}
	require.Equal(t, "Fantasy, Action", detail.GenreNames())
	require.True(t, detail.HasGenre(2))
	require.False(t, detail.HasGenre(3))

	require.Equal(t, "English", model.Language{Name: "English"}.String())
	require.Equal(t, "Horror", model.Genre{Name: "Horror"}.String())
}

func TestBookInstance(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, 3, 10, 15, 4, 0, 0, time.UTC)
	bi := model.BookInstance{
		ID:        "4a1f8b3e-5c9e-4d7a-9a43-1e0f5b1c2d3e",
		BookTitle: "Farm Animal",
		Status:    model.StatusOnLoan,
		DueBack:   date(2024, 4, 7),
	}
	require.Equal(t, "4a1f8b3e-5c9e-4d7a-9a43-1e0f5b1c2d3e (Farm Animal)", bi.String())
	require.Equal(t, "/catalog/book/4a1f8b3e-5c9e-4d7a-9a43-1e0f5b1c2d3e/renew/", bi.RenewURL())
	require.False(t, bi.IsOverdue(today))

	bi.DueBack = date(2024, 3, 10)
	require.False(t, bi.IsOverdue(today), "due today is not overdue")

	bi.DueBack = date(2024, 3, 9)
	require.True(t, bi.IsOverdue(today))

	bi.DueBack = nil
	require.False(t, bi.IsOverdue(today))
}

func TestBookInstance_Validate(t *testing.T) {
	t.Parallel()
	require.NoError(t, model.BookInstance{Status: model.StatusMaintenance}.Validate())
	require.NoError(t, model.BookInstance{Status: model.StatusOnLoan, DueBack: date(2024, 1, 1)}.Validate())
	require.Error(t, model.BookInstance{Status: model.StatusOnLoan}.Validate())
	require.Error(t, model.BookInstance{Status: "x"}.Validate())
	require.Equal(t, "On loan", model.StatusOnLoan.Label())
	require.Equal(t, "Maintenance", model.StatusMaintenance.Label())
}

func TestValidateRenewalDate(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	tests := []struct {
		name string
		date time.Time
		msg  string
	}{
		{name: "past", date: *date(2024, 3, 9), msg: model.MsgRenewalInPast},
		{name: "today", date: *date(2024, 3, 10)},
		{name: "three weeks", date: model.ProposedRenewalDate(today)},
		{name: "four weeks", date: *date(2024, 4, 7)},
		{name: "four weeks and a day", date: *date(2024, 4, 8), msg: model.MsgRenewalTooFar},
		{name: "five weeks", date: *date(2024, 4, 14), msg: model.MsgRenewalTooFar},
	}
	for _, tt := range tests {
		err := model.ValidateRenewalDate(tt.date, today)
		if tt.msg == "" {
			require.NoError(t, err, tt.name)
			continue
		}
		var ve *errs.ValidationError
		require.True(t, errors.As(err, &ve), tt.name)
		require.Equal(t, tt.msg, ve.Fields["due_back"], tt.name)
	}
	require.Equal(t, *date(2024, 3, 31), model.ProposedRenewalDate(today))
}

func TestPaging(t *testing.T) {
	t.Parallel()
	req, err := model.ParsePageRequest("")
	require.NoError(t, err)
	p, err := model.NewPaging(req, model.PaginateBy, 13)
	require.NoError(t, err)
	require.Equal(t, 2, p.NumPages)
	require.True(t, p.IsPaginated())
	require.True(t, p.HasNext())
	require.False(t, p.HasPrevious())
	require.Equal(t, 0, p.Offset())

	req, err = model.ParsePageRequest("last")
	require.NoError(t, err)
	p, err = model.NewPaging(req, model.PaginateBy, 13)
	require.NoError(t, err)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 10, p.Offset())
	require.False(t, p.HasNext())

	p, err = model.NewPaging(model.PageRequest{Number: 1}, model.PaginateBy, 0)
	require.NoError(t, err)
	require.False(t, p.IsPaginated())

	_, err = model.NewPaging(model.PageRequest{Number: 3}, model.PaginateBy, 13)
	require.ErrorIs(t, err, errs.ErrNotFound)

	for _, raw := range []string{"abc", "0", "-1"} {
		_, err = model.ParsePageRequest(raw)
		require.ErrorIs(t, err, errs.ErrNotFound, raw)
	}
}

func TestAuthorForm(t *testing.T) {
	t.Parallel()
	a, err := model.AuthorForm{FirstName: " Big ", LastName: "Bob", DateOfBirth: "1958-06-15", DateOfDeath: "2000-05-05"}.Author()
	require.NoError(t, err)
	require.Equal(t, "Big", a.FirstName)
	require.Equal(t, date(1958, 6, 15), a.DateOfBirth)

	_, err = model.AuthorForm{FirstName: "Big", LastName: "Bob", DateOfBirth: "2024-05-05", DateOfDeath: "1958-01-01"}.Author()
	var ve *errs.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Contains(t, ve.Fields, "date_of_death")

	_, err = model.AuthorForm{FirstName: "   ", LastName: "\t"}.Author()
	require.True(t, errors.As(err, &ve))
	require.Equal(t, map[string]string{"first_name": model.MsgRequired, "last_name": model.MsgRequired}, ve.Fields)

	a, err = model.AuthorForm{FirstName: "Big", LastName: "Bob"}.Author()
	require.NoError(t, err)
	require.Nil(t, a.DateOfBirth)
	require.Nil(t, a.DateOfDeath)

	f := model.NewAuthorForm(model.Author{FirstName: "Big", LastName: "Bob", DateOfDeath: &model.DefaultDateOfDeath})
	require.Equal(t, "2023-11-11", f.DateOfDeath)
	require.Empty(t, f.DateOfBirth)
}

func TestBookForm(t *testing.T) {
	t.Parallel()
	authorID, languageID := 2, 5
	detail := model.BookDetail{
		Book:   model.Book{Title: "Farm Animal", ISBN: "2000505087778", AuthorID: &authorID, LanguageID: &languageID},
		Genres: []model.Genre{{ID: 1}, {ID: 4}},
	}
	f := model.NewBookForm(detail)
	require.Equal(t, []int{1, 4}, f.GenreIDs)
	require.True(t, f.HasGenre(4))

	f.Summary = "Farm life."
	b, err := f.Book()
	require.NoError(t, err)
	require.Equal(t, 2, *b.AuthorID)
	require.Equal(t, 5, *b.LanguageID)
	require.Equal(t, "Farm Animal", b.Title)

	f.Title, f.ISBN = "  ", " "
	_, err = f.Book()
	var ve *errs.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, map[string]string{"title": model.MsgRequired, "isbn": model.MsgRequired}, ve.Fields)

	form := model.BookForm{Title: " Dune ", Summary: " Spice. ", ISBN: " 9780441013593 "}
	form.TrimSpace()
	require.Equal(t, model.BookForm{Title: "Dune", Summary: "Spice.", ISBN: "9780441013593"}, form)
}

func TestUser_HasPerm(t *testing.T) {
	t.Parallel()
	require.False(t, model.User{}.HasPerm(model.PermCanMarkReturned))
	require.False(t, model.User{}.IsAuthenticated())

	u := model.User{ID: 1, Username: "testuser2", Permissions: []string{model.PermCanMarkReturned}}
	require.True(t, u.HasPerm(model.PermCanMarkReturned))
	require.False(t, u.HasPerm(model.PermAddAuthor))
	require.Equal(t, "testuser2", u.String())

	admin := model.User{ID: 2, IsSuperuser: true}
	for _, p := range model.AllPermissions {
		require.True(t, admin.HasPerm(p), p)
	}
}
