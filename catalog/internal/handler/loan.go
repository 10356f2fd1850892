package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

const allBorrowedURL = "/catalog/borrowed/"

func (h *Handler) MyBorrowed(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListLoansByBorrower(c.Request().Context(), currentUser(c).ID, req)
	if err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK, "bookinstance_list_borrowed_user.html", pageData(echo.Map{
		"bookinstance_list": list.Items,
	}, list.Paging))
}

func (h *Handler) AllBorrowed(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListAllLoans(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK, "bookinstance_list_all_borrowed.html", pageData(echo.Map{
		"bookinstance_list": list.Items,
	}, list.Paging))
}

func (h *Handler) RenewBookInstancePage(c echo.Context) error {
	inst, err := h.bookInstance(c)
	if err != nil {
		return err
	}
	form := model.RenewForm{
		DueBack: model.ProposedRenewalDate(h.svc.Today()).Format(model.DateLayout),
	}
	return h.renderRenew(c, inst, form, nil)
}

func (h *Handler) RenewBookInstance(c echo.Context) error {
	inst, err := h.bookInstance(c)
	if err != nil {
		return err
	}
	var form model.RenewForm
	fields, err := bindForm(c, &form)
	if err != nil {
		return err
	}
	if fields == nil {
		err = h.svc.RenewBookInstance(c.Request().Context(), inst.ID, form)
		if fields = formErrors(err); fields == nil && err != nil {
			return httpError(err)
		}
	}
	if fields != nil {
		return h.renderRenew(c, inst, form, fields)
	}
	return c.Redirect(http.StatusFound, allBorrowedURL)
}

func (h *Handler) renderRenew(c echo.Context, inst model.BookInstance, form model.RenewForm, fields map[string]string) error {
	return h.render(c, http.StatusOK, "book_renew_librarian.html", echo.Map{
		"form":          form,
		"errors":        fields,
		"book_instance": inst,
	})
}

// bookInstance loads the copy named by the :id uuid.
func (h *Handler) bookInstance(c echo.Context) (model.BookInstance, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return model.BookInstance{}, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	inst, err := h.svc.GetBookInstance(c.Request().Context(), id.String())
	if err != nil {
		return model.BookInstance{}, httpError(err)
	}
	return inst, nil
}
