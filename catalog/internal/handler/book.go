package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

const booksURL = "/catalog/books/"

func (h *Handler) BookCreatePage(c echo.Context) error {
	return h.renderBookForm(c, nil, model.BookForm{}, nil)
}

func (h *Handler) BookCreate(c echo.Context) error {
	var form model.BookForm
	fields, err := bindForm(c, &form)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.renderBookForm(c, nil, form, fields)
	}
	book, err := h.svc.CreateBook(c.Request().Context(), form)
	if fields = formErrors(err); fields != nil {
		return h.renderBookForm(c, nil, form, fields)
	}
	if err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusFound, book.URL())
}

func (h *Handler) BookUpdatePage(c echo.Context) error {
	book, err := h.book(c)
	if err != nil {
		return err
	}
	return h.renderBookForm(c, &book.Book, model.NewBookForm(book), nil)
}

func (h *Handler) BookUpdate(c echo.Context) error {
	current, err := h.book(c)
	if err != nil {
		return err
	}
	var form model.BookForm
	fields, err := bindForm(c, &form)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.renderBookForm(c, &current.Book, form, fields)
	}
	book, err := h.svc.UpdateBook(c.Request().Context(), current.ID, form)
	if fields = formErrors(err); fields != nil {
		return h.renderBookForm(c, &current.Book, form, fields)
	}
	if err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusFound, book.URL())
}

func (h *Handler) BookDeletePage(c echo.Context) error {
	book, err := h.book(c)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "book_confirm_delete.html", echo.Map{
		"book": book,
	})
}

// BookDelete removes the book; a book that still has copies is kept
// and the user is sent back to the confirmation page.
func (h *Handler) BookDelete(c echo.Context) error {
	book, err := h.book(c)
	if err != nil {
		return err
	}
	err = h.svc.DeleteBook(c.Request().Context(), book.ID)
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, booksURL)
	case errors.Is(err, errs.ErrReferenced):
		return c.Redirect(http.StatusFound, fmt.Sprintf("%s/delete/", book.URL()))
	default:
		return httpError(err)
	}
}

func (h *Handler) renderBookForm(c echo.Context, object *model.Book, form model.BookForm, fields map[string]string) error {
	choices, err := h.svc.BookChoices(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK, "book_form.html", echo.Map{
		"object":  object,
		"form":    form,
		"errors":  fields,
		"choices": choices,
		"fields":  model.BookFields,
	})
}

func (h *Handler) book(c echo.Context) (model.BookDetail, error) {
	id, err := intParam(c)
	if err != nil {
		return model.BookDetail{}, err
	}
	book, err := h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return model.BookDetail{}, httpError(err)
	}
	return book, nil
}
