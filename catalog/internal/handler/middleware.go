package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/internal/session"
	"github.com/Astemirdum/catalog-service/pkg/auth"
)

const (
	sessionCookie = "sessionid"
	loginURL      = "/accounts/login/"

	ctxKeyUser    = "user"
	ctxKeySession = "session"
)

// sessionMW loads the session named by the cookie and the user logged into it.
// Requests without a cookie get a fresh anonymous session that is only
// stored once something is written to it.
func (h *Handler) sessionMW(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sess := session.Session{ID: session.NewID()}
		if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			if sess, err = h.sessions.Get(ctx, cookie.Value); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}

		var user model.User
		if sess.UserID != 0 {
			u, err := h.svc.GetUser(ctx, sess.UserID)
			switch {
			case err == nil:
				user = u
				c.SetRequest(c.Request().WithContext(auth.SetAuthContext(ctx, u.ID, u.Username)))
			case errors.Is(err, errs.ErrNotFound):
				h.log.Debug("session user is gone", zap.Int("userID", sess.UserID))
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
		c.Set(ctxKeySession, sess)
		c.Set(ctxKeyUser, user)
		return next(c)
	}
}

func (h *Handler) loginRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentUser(c).IsAuthenticated() {
			return redirectToLogin(c)
		}
		return next(c)
	}
}

// permissionRequired sends anonymous users to the login page
// and rejects logged-in users without perm.
func (h *Handler) permissionRequired(perm string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := currentUser(c)
			if !user.IsAuthenticated() {
				return redirectToLogin(c)
			}
			if !user.HasPerm(perm) {
				return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to access this page.")
			}
			return next(c)
		}
	}
}

func (h *Handler) setSessionCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func currentUser(c echo.Context) model.User {
	u, _ := c.Get(ctxKeyUser).(model.User)
	return u
}

func currentSession(c echo.Context) session.Session {
	s, _ := c.Get(ctxKeySession).(session.Session)
	return s
}

func redirectToLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, loginURL+"?next="+escapeNext(c.Request().URL.RequestURI()))
}

// escapeNext query-escapes a path but keeps its slashes readable.
func escapeNext(path string) string {
	return strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// safeNext accepts only local absolute paths as a post-login target.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/catalog/"
	}
	return next
}
