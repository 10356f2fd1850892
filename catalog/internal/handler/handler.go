package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/web"
	mw "github.com/Astemirdum/catalog-service/pkg/middleware"
	"github.com/Astemirdum/catalog-service/pkg/validate"
)

const defaultSessionTTL = 14 * 24 * time.Hour

type Handler struct {
	svc        CatalogService
	sessions   SessionStore
	renderer   echo.Renderer
	sessionTTL time.Duration
	log        *zap.Logger
}

type Option func(h *Handler)

// WithRenderer replaces the embedded html templates.
func WithRenderer(r echo.Renderer) Option {
	return func(h *Handler) {
		h.renderer = r
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(h *Handler) {
		h.sessionTTL = ttl
	}
}

func New(svc CatalogService, sessions SessionStore, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:        svc,
		sessions:   sessions,
		sessionTTL: defaultSessionTTL,
		log:        log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.renderer == nil {
		h.renderer = MustTemplates(web.Templates)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		siteRPS = 100
	)
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/manage/")
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Renderer = h.renderer
	e.Validator = validate.NewCustomValidator()
	e.HTTPErrorHandler = h.errorHandler

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	site := e.Group("",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(siteRPS),
		h.sessionMW,
	)
	site.GET("/", h.Root)
	site.GET("/accounts/login/", h.LoginPage)
	site.POST("/accounts/login/", h.Login)
	site.POST("/accounts/logout/", h.Logout)

	catalog := site.Group("/catalog")
	catalog.GET("/", h.Index)
	catalog.GET("/books/", h.BookList)
	catalog.GET("/authors/", h.AuthorList)
	catalog.GET("/mybooks/", h.MyBorrowed, h.loginRequired)
	catalog.GET("/borrowed/", h.AllBorrowed, h.permissionRequired(model.PermCanMarkReturned))

	catalog.GET("/author/create/", h.AuthorCreatePage, h.permissionRequired(model.PermAddAuthor))
	catalog.POST("/author/create/", h.AuthorCreate, h.permissionRequired(model.PermAddAuthor))
	catalog.GET("/author/:id/", h.AuthorDetail)
	catalog.GET("/author/:id/update/", h.AuthorUpdatePage, h.permissionRequired(model.PermChangeAuthor))
	catalog.POST("/author/:id/update/", h.AuthorUpdate, h.permissionRequired(model.PermChangeAuthor))
	catalog.GET("/author/:id/delete/", h.AuthorDeletePage, h.permissionRequired(model.PermDeleteAuthor))
	catalog.POST("/author/:id/delete/", h.AuthorDelete, h.permissionRequired(model.PermDeleteAuthor))

	catalog.GET("/book/create/", h.BookCreatePage, h.permissionRequired(model.PermAddBook))
	catalog.POST("/book/create/", h.BookCreate, h.permissionRequired(model.PermAddBook))
	catalog.GET("/book/:id/", h.BookDetail)
	catalog.GET("/book/:id/update/", h.BookUpdatePage, h.permissionRequired(model.PermChangeBook))
	catalog.POST("/book/:id/update/", h.BookUpdate, h.permissionRequired(model.PermChangeBook))
	catalog.GET("/book/:id/delete/", h.BookDeletePage, h.permissionRequired(model.PermDeleteBook))
	catalog.POST("/book/:id/delete/", h.BookDelete, h.permissionRequired(model.PermDeleteBook))
	catalog.GET("/book/:id/renew/", h.RenewBookInstancePage, h.permissionRequired(model.PermCanMarkReturned))
	catalog.POST("/book/:id/renew/", h.RenewBookInstance, h.permissionRequired(model.PermCanMarkReturned))

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/catalog/")
}

// render adds the request user, path and today's date to the page data.
func (h *Handler) render(c echo.Context, code int, name string, data echo.Map) error {
	data["user"] = currentUser(c)
	data["path"] = c.Request().URL.RequestURI()
	data["today"] = h.svc.Today()
	return c.Render(code, name, data)
}

func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		msg = http.StatusText(code)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if rErr := h.render(c, code, "error.html", echo.Map{
		"status":  code,
		"title":   http.StatusText(code),
		"message": msg,
	}); rErr != nil {
		h.log.Error("render error page", zap.Error(rErr))
		_ = c.String(code, msg)
	}
}

// httpError maps service errors to http errors.
func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// trimmer is a form whose text fields are stripped before validation.
type trimmer interface {
	TrimSpace()
}

// bindForm binds and validates a posted form.
// Field errors are returned as messages, any other failure as err.
func bindForm(c echo.Context, form any) (map[string]string, error) {
	if err := c.Bind(form); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if t, ok := form.(trimmer); ok {
		t.TrimSpace()
	}
	if err := c.Validate(form); err != nil {
		if fields := validate.FieldErrors(err); fields != nil {
			return fields, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil, nil
}

// formErrors extracts the field messages of a validation error.
func formErrors(err error) map[string]string {
	var vErr *errs.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return nil
}

func pageRequest(c echo.Context) (model.PageRequest, error) {
	req, err := model.ParsePageRequest(c.QueryParam("page"))
	if err != nil {
		return model.PageRequest{}, echo.NewHTTPError(http.StatusNotFound, "invalid page")
	}
	return req, nil
}

func pageData(data echo.Map, paging model.Paging) echo.Map {
	data["page_obj"] = paging
	data["is_paginated"] = paging.IsPaginated()
	return data
}
