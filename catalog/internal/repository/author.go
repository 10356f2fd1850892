package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

var authorColumns = []string{"id", "first_name", "last_name", "date_of_birth", "date_of_death"}

func (r *repository) ListAuthors(ctx context.Context, req model.PageRequest) (model.ListAuthors, error) {
	total, err := r.CountAuthors(ctx)
	if err != nil {
		return model.ListAuthors{}, err
	}
	paging, err := model.NewPaging(req, model.PaginateBy, total)
	if err != nil {
		return model.ListAuthors{}, err
	}

	query, args, err := qb.Select(authorColumns...).
		From(authorTableName).
		OrderBy("last_name", "first_name", "id").
		Limit(uint64(paging.PageSize)).
		Offset(uint64(paging.Offset())).
		ToSql()
	if err != nil {
		return model.ListAuthors{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListAuthors{}, err
	}
	defer rows.Close()

	authors, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return model.ListAuthors{}, err
	}
	return model.ListAuthors{Paging: paging, Items: authors}, nil
}

func (r *repository) AllAuthors(ctx context.Context) ([]model.Author, error) {
	query, args, err := qb.Select(authorColumns...).
		From(authorTableName).
		OrderBy("last_name", "first_name", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	query, args, err := qb.Select(authorColumns...).
		From(authorTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, err
	}
	defer rows.Close()

	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return model.Author{}, notFound(err)
	}
	return author, nil
}

func (r *repository) CreateAuthor(ctx context.Context, a model.Author) (model.Author, error) {
	query, args, err := qb.Insert(authorTableName).
		Columns("first_name", "last_name", "date_of_birth", "date_of_death").
		Values(a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath).
		Suffix("returning id, first_name, last_name, date_of_birth, date_of_death").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, err
	}
	defer rows.Close()

	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		r.log.Error("CreateAuthor", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) UpdateAuthor(ctx context.Context, a model.Author) (model.Author, error) {
	const q = `
update author
    set first_name = @first_name, last_name = @last_name,
        date_of_birth = @date_of_birth, date_of_death = @date_of_death
where id = @id
returning id, first_name, last_name, date_of_birth, date_of_death`
	args := pgx.NamedArgs{
		"id":            a.ID,
		"first_name":    a.FirstName,
		"last_name":     a.LastName,
		"date_of_birth": a.DateOfBirth,
		"date_of_death": a.DateOfDeath,
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Author{}, err
	}
	defer rows.Close()

	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return model.Author{}, notFound(err)
	}
	return author, nil
}

func (r *repository) DeleteAuthor(ctx context.Context, id int) error {
	query, args, err := qb.Delete(authorTableName).Where(sq.Eq{"id": id}).ToSql()
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
