package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CountBooks(ctx context.Context, titleContains string) (int, error)
	CountBookInstances(ctx context.Context, status model.LoanStatus) (int, error)
	CountAuthors(ctx context.Context) (int, error)
	CountGenres(ctx context.Context) (int, error)

	ListAuthors(ctx context.Context, req model.PageRequest) (model.ListAuthors, error)
	AllAuthors(ctx context.Context) ([]model.Author, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	CreateAuthor(ctx context.Context, a model.Author) (model.Author, error)
	UpdateAuthor(ctx context.Context, a model.Author) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error

	ListBooks(ctx context.Context, req model.PageRequest) (model.ListBooks, error)
	ListBooksByAuthor(ctx context.Context, authorID int) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	GetBookGenres(ctx context.Context, bookID int) ([]model.Genre, error)
	CreateBook(ctx context.Context, b model.Book, genreIDs []int) (model.Book, error)
	UpdateBook(ctx context.Context, b model.Book, genreIDs []int) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error

	GetLanguage(ctx context.Context, id int) (model.Language, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)

	ListBookInstancesByBook(ctx context.Context, bookID int) ([]model.BookInstance, error)
	ListLoans(ctx context.Context, borrowerID int, req model.PageRequest) (model.ListBookInstances, error)
	GetBookInstance(ctx context.Context, id string) (model.BookInstance, error)
	UpdateDueBack(ctx context.Context, id string, dueBack time.Time) error

	GetUserByID(ctx context.Context, id int) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	UpsertSuperuser(ctx context.Context, username, passwordHash string) error
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	authorTableName          = `author`
	languageTableName        = `language`
	genreTableName           = `genre`
	bookTableName            = `book`
	bookGenreTableName       = `book_genre`
	bookInstanceTableName    = `book_instance`
	usersTableName           = `users`
	userPermissionsTableName = `user_permissions`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		r.log.Error("count", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (r *repository) CountBooks(ctx context.Context, titleContains string) (int, error) {
	q := qb.Select("count(*)").From(bookTableName)
	if titleContains != "" {
		q = q.Where(sq.ILike{"title": "%" + escapeLike(titleContains) + "%"})
	}
	return r.count(ctx, q)
}

func (r *repository) CountBookInstances(ctx context.Context, status model.LoanStatus) (int, error) {
	q := qb.Select("count(*)").From(bookInstanceTableName)
	if status != "" {
		q = q.Where(sq.Eq{"status": status})
	}
	return r.count(ctx, q)
}

func (r *repository) CountAuthors(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").From(authorTableName))
}

func (r *repository) CountGenres(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").From(genreTableName))
}

// notFound maps the pgx no-rows error to errs.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

// deleteErr reports rows that are still referenced by a restricting foreign key.
func deleteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
			return errs.ErrReferenced
		}
	}
	return err
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
