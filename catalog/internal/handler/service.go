package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/internal/service"
	"github.com/Astemirdum/catalog-service/catalog/internal/session"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	Today() time.Time
	Index(ctx context.Context, titleFilter string) (model.IndexStats, error)

	ListAuthors(ctx context.Context, req model.PageRequest) (model.ListAuthors, error)
	GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error)
	CreateAuthor(ctx context.Context, form model.AuthorForm) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int, form model.AuthorForm) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error

	ListBooks(ctx context.Context, req model.PageRequest) (model.ListBooks, error)
	GetBook(ctx context.Context, id int) (model.BookDetail, error)
	BookChoices(ctx context.Context) (model.BookChoices, error)
	CreateBook(ctx context.Context, form model.BookForm) (model.Book, error)
	UpdateBook(ctx context.Context, id int, form model.BookForm) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error

	ListLoansByBorrower(ctx context.Context, userID int, req model.PageRequest) (model.ListBookInstances, error)
	ListAllLoans(ctx context.Context, req model.PageRequest) (model.ListBookInstances, error)
	GetBookInstance(ctx context.Context, id string) (model.BookInstance, error)
	RenewBookInstance(ctx context.Context, id string, form model.RenewForm) error

	Authenticate(ctx context.Context, username, password string) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
}

var _ CatalogService = (*service.Service)(nil)

type SessionStore interface {
	Get(ctx context.Context, id string) (session.Session, error)
	IncrVisits(ctx context.Context, id string) (int, error)
	Login(ctx context.Context, oldID string, userID int) (string, error)
	Logout(ctx context.Context, id string) error
}

var _ SessionStore = (*session.Store)(nil)
