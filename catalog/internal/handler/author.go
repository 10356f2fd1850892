package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

const authorsURL = "/catalog/authors/"

func (h *Handler) AuthorCreatePage(c echo.Context) error {
	form := model.AuthorForm{DateOfDeath: model.FormatDate(&model.DefaultDateOfDeath)}
	return h.renderAuthorForm(c, nil, form, nil)
}

func (h *Handler) AuthorCreate(c echo.Context) error {
	var form model.AuthorForm
	fields, err := bindForm(c, &form)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.renderAuthorForm(c, nil, form, fields)
	}
	author, err := h.svc.CreateAuthor(c.Request().Context(), form)
	if fields = formErrors(err); fields != nil {
		return h.renderAuthorForm(c, nil, form, fields)
	}
	if err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusFound, author.URL())
}

func (h *Handler) AuthorUpdatePage(c echo.Context) error {
	author, err := h.author(c)
	if err != nil {
		return err
	}
	return h.renderAuthorForm(c, &author.Author, model.NewAuthorForm(author.Author), nil)
}

func (h *Handler) AuthorUpdate(c echo.Context) error {
	current, err := h.author(c)
	if err != nil {
		return err
	}
	var form model.AuthorForm
	fields, err := bindForm(c, &form)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.renderAuthorForm(c, &current.Author, form, fields)
	}
	author, err := h.svc.UpdateAuthor(c.Request().Context(), current.ID, form)
	if fields = formErrors(err); fields != nil {
		return h.renderAuthorForm(c, &current.Author, form, fields)
	}
	if err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusFound, author.URL())
}

func (h *Handler) AuthorDeletePage(c echo.Context) error {
	author, err := h.author(c)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "author_confirm_delete.html", echo.Map{
		"author": author,
	})
}

// AuthorDelete removes the author; an author who still has books is kept
// and the user is sent back to the confirmation page.
func (h *Handler) AuthorDelete(c echo.Context) error {
	author, err := h.author(c)
	if err != nil {
		return err
	}
	err = h.svc.DeleteAuthor(c.Request().Context(), author.ID)
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, authorsURL)
	case errors.Is(err, errs.ErrReferenced):
		return c.Redirect(http.StatusFound, fmt.Sprintf("%s/delete/", author.URL()))
	default:
		return httpError(err)
	}
}

func (h *Handler) renderAuthorForm(c echo.Context, object *model.Author, form model.AuthorForm, fields map[string]string) error {
	return h.render(c, http.StatusOK, "author_form.html", echo.Map{
		"object": object,
		"form":   form,
		"errors": fields,
		"fields": model.AuthorFields,
	})
}

func (h *Handler) author(c echo.Context) (model.AuthorDetail, error) {
	id, err := intParam(c)
	if err != nil {
		return model.AuthorDetail{}, err
	}
	author, err := h.svc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return model.AuthorDetail{}, httpError(err)
	}
	return author, nil
}
