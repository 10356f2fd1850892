package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.svc.Index(ctx, "")
	if err != nil {
		return httpError(err)
	}

	sess := currentSession(c)
	numVisits, err := h.sessions.IncrVisits(ctx, sess.ID)
	if err != nil {
		h.log.Warn("count visit", zap.Error(err))
		numVisits = sess.NumVisits
	} else {
		h.setSessionCookie(c, sess.ID)
	}

	return h.render(c, http.StatusOK, "index.html", echo.Map{
		"num_books":               stats.NumBooks,
		"num_instances":           stats.NumInstances,
		"num_instances_available": stats.NumInstancesAvailable,
		"num_authors":             stats.NumAuthors,
		"num_genres":              stats.NumGenres,
		"num_books_available":     stats.NumBooksAvailable,
		"num_visits":              numVisits,
	})
}

func (h *Handler) BookList(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListBooks(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK, "book_list.html", pageData(echo.Map{
		"book_list": list.Items,
	}, list.Paging))
}

func (h *Handler) BookDetail(c echo.Context) error {
	id, err := intParam(c)
	if err != nil {
		return err
	}
	book, err := h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK, "book_detail.html", echo.Map{
		"book": book,
	})
}

func (h *Handler) AuthorList(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListAuthors(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK, "author_list.html", pageData(echo.Map{
		"author_list": list.Items,
	}, list.Paging))
}

func (h *Handler) AuthorDetail(c echo.Context) error {
	id, err := intParam(c)
	if err != nil {
		return err
	}
	author, err := h.svc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK, "author_detail.html", echo.Map{
		"author": author,
	})
}

// intParam reads the numeric :id; anything else is an unknown page.
func intParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
