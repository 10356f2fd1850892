package handler_test

import (
	"bytes"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/catalog-service/catalog/internal/handler"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/web"
)

func TestTemplates_Render(t *testing.T) {
	t.Parallel()
	tmpl, err := handler.NewTemplates(web.Templates)
	require.NoError(t, err)

	authorID, languageID := 1, 1
	born := today.AddDate(-60, 0, 0)
	author := model.Author{ID: authorID, FirstName: "Frank", LastName: "Herbert", DateOfBirth: &born}
	lang := model.Language{ID: languageID, Name: "English"}
	book := model.Book{ID: 2, Title: "Dune", Summary: "Spice & sand", ISBN: "9780441013593", AuthorID: &authorID, LanguageID: &languageID}
	overdue := loans(1, testUser)[0]
	past := today.AddDate(0, 0, -3)
	overdue.DueBack = &past
	paging := model.Paging{Page: 2, PageSize: 10, TotalElements: 25, NumPages: 3}

	tests := []struct {
		name     string
		data     echo.Map
		contains []string
	}{
		{
			name: "index.html",
			data: echo.Map{
				"num_books": 3, "num_instances": 4, "num_instances_available": 1,
				"num_authors": 2, "num_genres": 5, "num_books_available": 1, "num_visits": 1,
			},
			contains: []string{"Local Library Home", "visited this page 1 time.", "<strong>Genres:</strong> 5"},
		},
		{
			name: "book_list.html",
			data: echo.Map{
				"book_list":    []model.BookItem{{Book: book, AuthorFirstName: &author.FirstName, AuthorLastName: &author.LastName}},
				"page_obj":     paging,
				"is_paginated": true,
			},
			contains: []string{`<a href="/catalog/book/2">Dune</a> (Herbert, Frank)`, "Page 2 of 3.", `href="?page=1"`, `href="?page=3"`},
		},
		{
			name: "book_detail.html",
			data: echo.Map{
				"book": model.BookDetail{
					Book:      book,
					Author:    &author,
					Language:  &lang,
					Genres:    []model.Genre{{ID: 1, Name: "Science Fiction"}},
					Instances: []model.BookInstance{overdue},
				},
			},
			contains: []string{"Title: Dune", "Herbert, Frank", "Spice &amp; sand", "Science Fiction", "On loan", "2024-03-07"},
		},
		{
			name: "author_list.html",
			data: echo.Map{
				"author_list":  []model.Author{author},
				"page_obj":     model.Paging{Page: 1, PageSize: 10, TotalElements: 1, NumPages: 1},
				"is_paginated": false,
			},
			contains: []string{`<a href="/catalog/author/1">Herbert, Frank</a>`, "1964-03-10"},
		},
		{
			name:     "author_detail.html",
			data:     echo.Map{"author": model.AuthorDetail{Author: author, Books: []model.Book{book}}},
			contains: []string{"Author: Herbert, Frank", `<a href="/catalog/book/2">Dune</a>`},
		},
		{
			name:     "bookinstance_list_borrowed_user.html",
			data:     echo.Map{"bookinstance_list": []model.BookInstance{overdue}},
			contains: []string{`class="text-danger"`, "Book Title", "2024-03-07"},
		},
		{
			name:     "bookinstance_list_all_borrowed.html",
			data:     echo.Map{"bookinstance_list": []model.BookInstance{overdue}},
			contains: []string{"testuser1", "Book Title"},
		},
		{
			name: "book_renew_librarian.html",
			data: echo.Map{
				"form":          model.RenewForm{DueBack: "2024-03-31"},
				"errors":        map[string]string{"due_back": model.MsgRenewalInPast},
				"book_instance": overdue,
			},
			contains: []string{`value="2024-03-31"`, model.MsgRenewalInPast, "Renew: Book Title"},
		},
		{
			name: "author_form.html",
			data: echo.Map{
				"object": (*model.Author)(nil),
				"form":   model.AuthorForm{DateOfDeath: "2023-11-11"},
				"errors": map[string]string(nil),
				"fields": model.AuthorFields,
			},
			contains: []string{"Create author", `value="2023-11-11"`, "died:"},
		},
		{
			name: "author_form.html",
			data: echo.Map{
				"object": &author,
				"form":   model.NewAuthorForm(author),
				"errors": map[string]string{"last_name": "This field is required."},
				"fields": model.AuthorFields,
			},
			contains: []string{"Update author: Herbert, Frank", "This field is required."},
		},
		{
			name:     "author_confirm_delete.html",
			data:     echo.Map{"author": model.AuthorDetail{Author: author, Books: []model.Book{book}}},
			contains: []string{"Delete Author: Herbert, Frank", "You can't delete this author"},
		},
		{
			name: "book_form.html",
			data: echo.Map{
				"object": &book,
				"form":   model.BookForm{Title: "Dune", AuthorID: 1, GenreIDs: []int{1}, LanguageID: 1},
				"errors": map[string]string{"isbn": "Book with this ISBN already exists."},
				"choices": model.BookChoices{
					Authors:   []model.Author{author},
					Genres:    []model.Genre{{ID: 1, Name: "Science Fiction"}, {ID: 2, Name: "Fantasy"}},
					Languages: []model.Language{lang},
				},
				"fields": model.BookFields,
			},
			contains: []string{`<option value="1" selected>Herbert, Frank</option>`, `<option value="2">Fantasy</option>`, "ISBN:", "Book with this ISBN already exists."},
		},
		{
			name:     "book_confirm_delete.html",
			data:     echo.Map{"book": model.BookDetail{Book: book}},
			contains: []string{"Delete Book: Dune", "Yes, delete."},
		},
		{
			name: "login.html",
			data: echo.Map{
				"form":   model.LoginForm{Username: "testuser1"},
				"errors": map[string]string(nil),
				"next":   "/catalog/mybooks/",
			},
			contains: []string{"Your account doesn't have access to this page.", `value="/catalog/mybooks/"`, `value="testuser1"`},
		},
		{
			name:     "error.html",
			data:     echo.Map{"status": 404, "title": "Not Found", "message": "not found"},
			contains: []string{"404 Not Found"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.data["user"] = librarian
			tt.data["path"] = "/catalog/"
			tt.data["today"] = today

			var buf bytes.Buffer
			require.NoError(t, tmpl.Render(&buf, tt.name, tt.data, nil))
			out := buf.String()
			require.Contains(t, out, "All borrowed")
			for _, s := range tt.contains {
				require.Contains(t, out, s)
			}
		})
	}

	t.Run("err. unknown template", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.Error(t, tmpl.Render(&buf, "missing.html", echo.Map{}, nil))
	})
}
