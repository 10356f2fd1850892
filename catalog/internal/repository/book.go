package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

var bookColumns = []string{"b.id", "b.title", "b.summary", "b.isbn", "b.author_id", "b.language_id"}

const bookReturning = "returning id, title, summary, isbn, author_id, language_id"

func (r *repository) ListBooks(ctx context.Context, req model.PageRequest) (model.ListBooks, error) {
	total, err := r.CountBooks(ctx, "")
	if err != nil {
		return model.ListBooks{}, err
	}
	paging, err := model.NewPaging(req, model.PaginateBy, total)
	if err != nil {
		return model.ListBooks{}, err
	}

	query, args, err := qb.Select(bookColumns...).
		Columns("a.first_name as author_first_name", "a.last_name as author_last_name").
		From(bookTableName + " b").
		LeftJoin(fmt.Sprintf("%s a on a.id = b.author_id", authorTableName)).
		OrderBy("b.title", "b.id").
		Limit(uint64(paging.PageSize)).
		Offset(uint64(paging.Offset())).
		ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBooks{}, err
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BookItem])
	if err != nil {
		return model.ListBooks{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.ListBooks{Paging: paging, Items: books}, nil
}

func (r *repository) ListBooksByAuthor(ctx context.Context, authorID int) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(bookTableName + " b").
		Where(sq.Eq{"b.author_id": authorID}).
		OrderBy("b.title", "b.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(bookTableName + " b").
		Where(sq.Eq{"b.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return model.Book{}, notFound(err)
	}
	return book, nil
}

func (r *repository) GetBookGenres(ctx context.Context, bookID int) ([]model.Genre, error) {
	query, args, err := qb.Select("g.id", "g.name").
		From(genreTableName + " g").
		Join(fmt.Sprintf("%s bg on bg.genre_id = g.id", bookGenreTableName)).
		Where(sq.Eq{"bg.book_id": bookID}).
		OrderBy("g.name").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Genre])
}

func (r *repository) CreateBook(ctx context.Context, b model.Book, genreIDs []int) (model.Book, error) {
	var book model.Book
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := qb.Insert(bookTableName).
			Columns("title", "summary", "isbn", "author_id", "language_id").
			Values(b.Title, b.Summary, b.ISBN, b.AuthorID, b.LanguageID).
			Suffix(bookReturning).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		book, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
		if err != nil {
			return err
		}
		return setBookGenres(ctx, tx, book.ID, genreIDs)
	})
	if err != nil {
		r.log.Error("CreateBook", zap.Error(err))
		return model.Book{}, writeErr(err)
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, b model.Book, genreIDs []int) (model.Book, error) {
	const q = `
update book
    set title = @title, summary = @summary, isbn = @isbn,
        author_id = @author_id, language_id = @language_id
where id = @id
` + bookReturning
	var book model.Book
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, q, pgx.NamedArgs{
			"id":          b.ID,
			"title":       b.Title,
			"summary":     b.Summary,
			"isbn":        b.ISBN,
			"author_id":   b.AuthorID,
			"language_id": b.LanguageID,
		})
		if err != nil {
			return err
		}
		book, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
		if err != nil {
			return notFound(err)
		}
		return setBookGenres(ctx, tx, book.ID, genreIDs)
	})
	if err != nil {
		return model.Book{}, writeErr(err)
	}
	return book, nil
}

func setBookGenres(ctx context.Context, tx pgx.Tx, bookID int, genreIDs []int) error {
	if _, err := tx.Exec(ctx, `delete from book_genre where book_id = $1`, bookID); err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	ins := qb.Insert(bookGenreTableName).Columns("book_id", "genre_id")
	for _, id := range genreIDs {
		ins = ins.Values(bookID, id)
	}
	query, args, err := ins.Suffix("on conflict do nothing").ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}

func (r *repository) DeleteBook(ctx context.Context, id int) error {
	query, args, err := qb.Delete(bookTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return deleteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// writeErr turns constraint violations on book writes into form errors.
func writeErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == "book_isbn_key" {
			return errs.NewValidationError("isbn", "Book with this ISBN already exists.")
		}
		return errs.ErrConflict
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "book_author_id_fkey":
			return errs.NewValidationError("author", "Select a valid choice.")
		case "book_language_id_fkey":
			return errs.NewValidationError("language", "Select a valid choice.")
		case "book_genre_genre_id_fkey":
			return errs.NewValidationError("genre", "Select a valid choice.")
		}
	}
	return err
}

func (r *repository) GetLanguage(ctx context.Context, id int) (model.Language, error) {
	query, args, err := qb.Select("id", "name").
		From(languageTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Language{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Language{}, err
	}
	defer rows.Close()

	lang, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Language])
	if err != nil {
		return model.Language{}, notFound(err)
	}
	return lang, nil
}

func (r *repository) ListLanguages(ctx context.Context) ([]model.Language, error) {
	query, args, err := qb.Select("id", "name").From(languageTableName).OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Language])
}

func (r *repository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	query, args, err := qb.Select("id", "name").From(genreTableName).OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Genre])
}
