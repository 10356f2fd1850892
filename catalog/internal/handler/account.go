package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

const msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

func (h *Handler) LoginPage(c echo.Context) error {
	return h.renderLogin(c, model.LoginForm{Next: c.QueryParam("next")}, nil)
}

// Login checks the credentials, binds the user to a fresh session id
// and redirects to the page that asked for the login.
func (h *Handler) Login(c echo.Context) error {
	var form model.LoginForm
	fields, err := bindForm(c, &form)
	if err != nil {
		return err
	}
	if fields != nil {
		return h.renderLogin(c, form, fields)
	}

	ctx := c.Request().Context()
	user, err := h.svc.Authenticate(ctx, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			return h.renderLogin(c, form, map[string]string{"__all__": msgInvalidLogin})
		}
		return httpError(err)
	}

	sid, err := h.sessions.Login(ctx, currentSession(c).ID, user.ID)
	if err != nil {
		return httpError(err)
	}
	h.setSessionCookie(c, sid)
	h.log.Info("login", zap.String("username", user.Username))
	return c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (h *Handler) Logout(c echo.Context) error {
	if _, err := c.Cookie(sessionCookie); err == nil {
		if err = h.sessions.Logout(c.Request().Context(), currentSession(c).ID); err != nil {
			return httpError(err)
		}
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/catalog/")
}

func (h *Handler) renderLogin(c echo.Context, form model.LoginForm, fields map[string]string) error {
	form.Password = ""
	return h.render(c, http.StatusOK, "login.html", echo.Map{
		"form":   form,
		"errors": fields,
		"next":   form.Next,
	})
}
